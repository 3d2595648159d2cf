package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgmorph/pkg/config"
	"github.com/matzehuels/orgmorph/pkg/observability/metrics"
	"github.com/matzehuels/orgmorph/pkg/pipeline"
)

// setup loads the configuration, applies global flag overrides and installs
// the metrics collector. It runs before every command.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.LoadOptions{Path: c.configPath})
	if err != nil {
		return err
	}
	if c.storeBackend != "" {
		cfg.Store.Backend = c.storeBackend
	}
	if c.metricsFile != "" {
		cfg.Metrics.File = c.metricsFile
	}
	// Flags may have changed validated values.
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded configuration", "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)

	if cfg.Metrics.File != "" {
		c.metrics = metrics.New()
		c.metrics.Register()
	}
	return nil
}

// teardown writes the metrics textfile when one was requested.
func (c *CLI) teardown() error {
	if c.metrics == nil {
		return nil
	}
	path := c.config().Metrics.File
	if err := c.metrics.WriteTextfile(path); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", path)
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		cfg := config.Default()
		c.cfg = &cfg
	}
	return c.cfg
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from the configuration. The view
// is left empty so that stored preferences can choose it.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.config()
	opts := pipeline.Options{
		ViewportWidth:  cfg.Layout.ViewportWidth,
		ViewportHeight: cfg.Layout.ViewportHeight,
		Strategy:       cfg.Layout.Strategy,
		RowThreshold:   cfg.Layout.RowThreshold,
		Formats:        cfg.Render.Formats,
		Seniority:      cfg.Render.Seniority,
		Animate:        cfg.Render.Animate,
		Scale:          cfg.Render.Scale,
		CacheTTL:       cfg.Cache.TTL,
		Logger:         c.Logger,
	}
	return opts
}
