package pipeline

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/edgebundle/pkg/cache"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

// DefaultAddr is the listen address of the HTTP server.
const DefaultAddr = ":8080"

// Config is the edgebundle config file.
//
//	[layout]
//	strategy = "bundled"
//	edges_above_blocks = true
//	derive_elevation = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
type Config struct {
	Layout Options      `toml:"layout"`
	Cache  cache.Config `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// ServerConfig is the [server] table.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// Timeout bounds a single request, as a Go duration string.
	Timeout string `toml:"timeout"`

	// MaxBodyBytes bounds uploaded scenes.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// RequestTimeout parses Timeout. An empty value means no limit.
func (s ServerConfig) RequestTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d < 0 {
		return 0, errs.New(errs.ErrCodeInvalidConfig, "invalid server timeout %q", s.Timeout)
	}
	return d, nil
}

// DefaultConfig returns the values used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Layout: DefaultOptions(),
		Cache:  cache.Config{Backend: cache.BackendFile},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			Timeout:      "30s",
			MaxBodyBytes: 8 << 20,
		},
	}
}

// LoadConfig reads a TOML config file on top of [DefaultConfig]. An empty
// path returns the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if err := errs.ValidatePath(path); err != nil {
		return cfg, err
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the layout and server tables. The cache table is checked
// when the backend is opened, after the CLI has filled in its directory.
func (c *Config) Validate() error {
	c.Layout.SetDefaults()
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server max_body_bytes must not be negative")
	}
	_, err := c.Server.RequestTimeout()
	return err
}
