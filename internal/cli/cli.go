package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/buildinfo"
	"github.com/matzehuels/orgmorph/pkg/cache"
	"github.com/matzehuels/orgmorph/pkg/config"
	"github.com/matzehuels/orgmorph/pkg/observability/metrics"
	"github.com/matzehuels/orgmorph/pkg/pipeline"
	"github.com/matzehuels/orgmorph/pkg/roster"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "orgmorph"

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

	// Set by global flags.
	configPath   string
	storeBackend string
	metricsFile  string

	// Resolved in the root pre-run.
	cfg     *config.Config
	metrics *metrics.Collector

	// now is the clock used for file names and snapshots.
	now func() time.Time
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		now:    time.Now,
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
		Short: "Orgmorph lays out and renders engineering org charts",
		Long: `Orgmorph keeps an engineering roster (director, managers, developers,
squads and the release train) and renders it as a management tree or as a
squad view, to SVG, PNG, PDF, JSON or DOT.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/orgmorph/config.toml)")
	flags.StringVar(&c.storeBackend, "store", "", "storage backend: file, memory, redis, mongo")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	// Chart commands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.zoomCommand())
	root.AddCommand(c.prefsCommand())
	root.AddCommand(c.browseCommand())

	// Roster commands
	root.AddCommand(c.peopleCommand())
	root.AddCommand(c.squadCommand())
	root.AddCommand(c.directorCommand())
	root.AddCommand(c.rteCommand())
	root.AddCommand(c.dataCommand())

	// Spreadsheets
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.templateCommand())

	// Maintenance
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg := c.config(); cfg.Cache.Backend == config.CacheRedis && cfg.Redis.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Redis.Prefix)
	}
	return pipeline.NewRunner(cache.Instrument(ch), keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A cache directory that
// cannot be located disables caching rather than failing the command.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheRedis {
		return cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cache.WithRedisPrefix(appName+":cache:")), nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Roster Factory
// =============================================================================

// openService opens the configured store and returns a roster service on
// top of it. The returned close function releases the store.
func (c *CLI) openService(ctx context.Context) (*roster.Service, func(), error) {
	s, err := store.Open(ctx, c.config().StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	svc := roster.New(s, roster.Options{Logger: c.Logger, Now: c.now})
	return svc, func() {
		if err := s.Close(); err != nil {
			c.Logger.Debug("close store", "error", err)
		}
	}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/orgmorph/).
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
