package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/edgebundle/pkg/buildinfo"
	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "edgebundle"

	// configFile is the file looked up in the config directory when
	// --config is not given.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	cfg        pipeline.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    pipeline.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Edgebundle routes dependency edges over a hierarchical 3D layout",
		Long: `Edgebundle computes the control points of edges drawn between the blocks of a
hierarchical 3D scene. Bundled routing lifts edges through the levels of the
hierarchy so that edges sharing ancestors travel together.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+filepath.Join("$XDG_CONFIG_HOME", appName, configFile)+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default config file when it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		if dir, err := configDir(); err == nil {
			candidate := filepath.Join(dir, configFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			} else if !errors.Is(err, fs.ErrNotExist) {
				c.Logger.Warn("ignoring config file", "path", candidate, "err", err)
			}
		}
	}

	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()
	if c.cfg.Cache.Backend == cache.BackendMongo && c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.cfg.Cache.Prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openCache opens the configured backend. The file backend defaults to the
// XDG cache directory and degrades to no caching when there is none.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.cfg.Cache
	if (cfg.Backend == "" || cfg.Backend == cache.BackendFile) && cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		cfg.Dir = dir
	}
	c.Logger.Debug("opening cache", "backend", backendName(cfg))
	return cache.Open(ctx, cfg)
}

func backendName(cfg cache.Config) string {
	if cfg.Backend == "" {
		return cache.BackendFile
	}
	return cfg.Backend
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/edgebundle/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/edgebundle/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options settable on the command line. Only
// flags the user changed override the config file.
type layoutFlags struct {
	strategy     string
	below        bool
	levelUnit    float64
	minElevation float64
	derive       bool
	workers      int
	refresh      bool
}

func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	d := pipeline.DefaultOptions()
	flags := cmd.Flags()
	flags.StringVarP(&f.strategy, "strategy", "s", d.Strategy, "routing strategy: bundled, direct")
	flags.BoolVar(&f.below, "below", false, "hang edges below the blocks instead of above")
	flags.Float64Var(&f.levelUnit, "level-unit", d.LevelUnit, "vertical distance between hierarchy levels")
	flags.Float64Var(&f.minElevation, "min-elevation", 0, "elevation at the deepest level (implies --derive=false)")
	flags.BoolVar(&f.derive, "derive", d.DeriveElevation, "derive elevation from the tallest block")
	flags.IntVarP(&f.workers, "workers", "w", d.Workers, "edges routed concurrently")
	flags.BoolVar(&f.refresh, "refresh", false, "recompute even when the layout is cached")
}

// apply overlays the changed flags on base.
func (f *layoutFlags) apply(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		base.Strategy = f.strategy
	}
	if flags.Changed("below") {
		base.EdgesAboveBlocks = !f.below
	}
	if flags.Changed("level-unit") {
		base.LevelUnit = f.levelUnit
	}
	if flags.Changed("min-elevation") {
		base.MinElevation = f.minElevation
		base.DeriveElevation = false
	}
	if flags.Changed("derive") {
		base.DeriveElevation = f.derive
	}
	if flags.Changed("workers") {
		base.Workers = f.workers
	}
	base.Refresh = f.refresh
	return base
}
