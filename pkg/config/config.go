// Package config loads orgmorph settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file, $XDG_CONFIG_HOME/orgmorph/config.toml unless a path is given
//  3. .env files in the working directory (missing files are ignored)
//  4. ORGMORPH_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// A complete file looks like:
//
//	[store]
//	backend = "redis"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[cache]
//	backend = "file"
//	ttl = "168h"
//
//	[layout]
//	viewport_width = 1920
//	viewport_height = 1080
//	strategy = "by-squad"
//	row_threshold = 8
//
//	[render]
//	formats = ["svg", "png"]
//	seniority = true
//
//	[metrics]
//	file = "/var/lib/node_exporter/orgmorph.prom"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/matzehuels/orgmorph/pkg/cache"
	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/layout"
	"github.com/matzehuels/orgmorph/pkg/layout/squads"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "ORGMORPH_"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Render formats.
var Formats = []string{"svg", "png", "pdf", "json", "dot"}

// Config is the full configuration.
type Config struct {
	Store   StoreConfig   `toml:"store" envPrefix:"STORE_"`
	Redis   RedisConfig   `toml:"redis" envPrefix:"REDIS_"`
	Mongo   MongoConfig   `toml:"mongo" envPrefix:"MONGO_"`
	Cache   CacheConfig   `toml:"cache" envPrefix:"CACHE_"`
	Layout  LayoutConfig  `toml:"layout" envPrefix:"LAYOUT_"`
	Render  RenderConfig  `toml:"render" envPrefix:"RENDER_"`
	Metrics MetricsConfig `toml:"metrics" envPrefix:"METRICS_"`
}

// StoreConfig selects where the organisation is persisted.
type StoreConfig struct {
	Backend string `toml:"backend" env:"BACKEND"`
	Dir     string `toml:"dir" env:"DIR"`
}

// RedisConfig is shared by the redis store and the redis cache.
type RedisConfig struct {
	Addr     string `toml:"addr" env:"ADDR"`
	Password string `toml:"password" env:"PASSWORD"`
	DB       int    `toml:"db" env:"DB"`
	Prefix   string `toml:"prefix" env:"PREFIX"`
}

type MongoConfig struct {
	URI        string `toml:"uri" env:"URI"`
	Database   string `toml:"database" env:"DATABASE"`
	Collection string `toml:"collection" env:"COLLECTION"`
}

// CacheConfig controls the layout and artifact cache.
type CacheConfig struct {
	Backend string        `toml:"backend" env:"BACKEND"`
	Dir     string        `toml:"dir" env:"DIR"`
	TTL     time.Duration `toml:"ttl" env:"TTL"`
}

type LayoutConfig struct {
	ViewportWidth  float64 `toml:"viewport_width" env:"VIEWPORT_WIDTH"`
	ViewportHeight float64 `toml:"viewport_height" env:"VIEWPORT_HEIGHT"`
	Strategy       string  `toml:"strategy" env:"STRATEGY"`
	RowThreshold   int     `toml:"row_threshold" env:"ROW_THRESHOLD"`
}

type RenderConfig struct {
	Formats   []string `toml:"formats" env:"FORMATS" envSeparator:","`
	Seniority bool     `toml:"seniority" env:"SENIORITY"`
	Animate   bool     `toml:"animate" env:"ANIMATE"`
	Scale     float64  `toml:"scale" env:"SCALE"`
}

// MetricsConfig names the Prometheus textfile written on exit. Empty
// disables metrics.
type MetricsConfig struct {
	File string `toml:"file" env:"FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store: StoreConfig{Backend: store.BackendFile},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{Database: "orgmorph", Collection: "documents"},
		Cache: CacheConfig{Backend: CacheFile, TTL: cache.LayoutTTL},
		Layout: LayoutConfig{
			ViewportWidth:  layout.DefaultViewport.Width,
			ViewportHeight: layout.DefaultViewport.Height,
			Strategy:       string(squads.DefaultStrategy),
			RowThreshold:   squads.DefaultRowThreshold,
		},
		Render: RenderConfig{Formats: []string{"svg"}, Scale: 2},
	}
}

// LoadOptions controls [Load].
type LoadOptions struct {
	// Path is an explicit config file. It must exist. Empty means
	// [DefaultPath], which may be absent.
	Path string
	// EnvFiles are dotenv files to load. Nil means ".env".
	EnvFiles []string
}

// Load builds the configuration from defaults, file and environment, then
// validates it.
func Load(opts LoadOptions) (*Config, error) {
	c := Default()

	path, required := opts.Path, true
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path, required = p, false
	}
	if err := c.decodeFile(path, required); err != nil {
		return nil, err
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load env files")
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse environment")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	md, err := toml.DecodeFile(path, c)
	if stderrors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadEnv loads the dotenv files that exist and reports how many were read.
// Variables already set in the environment are not overwritten.
func LoadEnv(files []string) (int, error) {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// DefaultPath returns $XDG_CONFIG_HOME/orgmorph/config.toml, falling back
// to ~/.config/orgmorph/config.toml.
func DefaultPath() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "orgmorph", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(home, ".config", "orgmorph", "config.toml"), nil
}

// Validate checks every section and reports the first problem.
func (c *Config) Validate() error {
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend %q must be one of %s",
			c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Store.Backend == store.BackendRedis && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis.addr is required for the redis store")
	}
	if c.Store.Backend == store.BackendMongo && c.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo.uri is required for the mongo store")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis.addr is required for the redis cache")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of file, redis, none", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if !(c.Layout.ViewportWidth > 0) || !(c.Layout.ViewportHeight > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout viewport must be positive, got %gx%g",
			c.Layout.ViewportWidth, c.Layout.ViewportHeight)
	}
	if _, err := squads.ParseStrategy(c.Layout.Strategy); err != nil {
		return err
	}
	if c.Layout.RowThreshold < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.row_threshold must be at least 1")
	}

	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "render format %q must be one of %s", f, strings.Join(Formats, ", "))
		}
	}
	if !(c.Render.Scale > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive")
	}
	return nil
}

// StoreOptions converts the store sections for [store.Open].
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Dir:     c.Store.Dir,
		Redis: store.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
		Mongo: store.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		},
	}
}

// Viewport returns the configured layout viewport.
func (c *Config) Viewport() layout.Viewport {
	return layout.Viewport{Width: c.Layout.ViewportWidth, Height: c.Layout.ViewportHeight}
}
