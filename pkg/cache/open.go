package cache

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a cache backend. It is the [cache] table
// of the edgebundle config file.
type Config struct {
	Backend string `toml:"backend" validate:"omitempty,oneof=file redis mongo none"`
	Dir     string `toml:"dir"`
	Prefix  string `toml:"prefix"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db" validate:"gte=0,lte=15"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

var validate = validator.New()

// Validate checks the config for the selected backend.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid cache config")
	}
	switch c.Backend {
	case BackendRedis:
		return errs.ValidateRedisAddr(c.RedisAddr)
	case BackendMongo:
		return errs.ValidateMongoURI(c.MongoURI)
	case BackendFile, "":
		if c.Dir == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "file cache needs a directory")
		}
		return errs.ValidatePath(c.Dir)
	}
	return nil
}

// Open creates the backend named by cfg. An empty backend means the file
// cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeBackend, err, "open redis cache")
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeBackend, err, "open mongo cache")
		}
		return c, nil
	default:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return c, nil
	}
}
