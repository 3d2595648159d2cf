package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgmorph/pkg/cache"
	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/observability"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Runner encapsulates pipeline execution with caching.
// The CLI commands and the browser share it to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the layout → render pipeline on o with caching.
func (r *Runner) Execute(ctx context.Context, o *org.Organization, opts Options) (*Result, error) {
	if o == nil {
		return nil, fmt.Errorf("no organisation to chart")
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			People: len(o.People),
			Squads: len(o.Squads),
		},
	}

	orgHash, err := OrgHash(o)
	if err != nil {
		return nil, err
	}
	result.OrgHash = orgHash

	// Stage 1: Layout
	layoutStart := time.Now()
	c, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, o, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Chart = c
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Unassigned = len(c.Unassigned)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"view", c.View,
		"cards", len(c.Nodes),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, o, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// OrgHash returns the content hash of o used in cache keys.
func OrgHash(o *org.Organization) (string, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("serialize organisation for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// ComputeLayoutWithCacheInfo computes a chart with caching and returns cache
// hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, o *org.Organization, opts Options) (chart.Chart, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return chart.Chart{}, false, err
	}
	r.applyLogger(&opts)

	orgHash, err := OrgHash(o)
	if err != nil {
		return chart.Chart{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(orgHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := chart.Unmarshal(data)
			if err == nil {
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
			r.Logger.Debug("discarding unreadable cached layout", "error", err)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.View, len(o.People))
	start := time.Now()
	c, err := GenerateLayout(o, opts)
	hooks.OnLayoutComplete(ctx, opts.View, time.Since(start), err)
	if err != nil {
		return chart.Chart{}, false, err
	}

	if data, err := chart.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, opts.CacheTTL); err != nil {
			r.Logger.Debug("layout not cached", "error", err)
		}
	}

	return c, false, nil
}

// ComputeLayout is a convenience wrapper that calls
// ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, o *org.Organization, opts Options) (chart.Chart, error) {
	c, _, err := r.ComputeLayoutWithCacheInfo(ctx, o, opts)
	return c, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit is only reported when every requested format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c chart.Chart, o *org.Organization, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	baseHash, err := artifactBase(c, o)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(baseHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, c, o, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(baseHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, opts.CacheTTL); err != nil {
			r.Logger.Debug("artifact not cached", "format", format, "error", err)
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c chart.Chart, o *org.Organization, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, o, opts)
	return artifacts, err
}

// artifactBase hashes the chart together with the organisation, since tree
// and DOT outputs are drawn from the organisation rather than the chart.
func artifactBase(c chart.Chart, o *org.Organization) (string, error) {
	chartData, err := chart.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("serialize chart for cache key: %w", err)
	}
	if o == nil {
		return cache.Hash(chartData), nil
	}
	orgHash, err := OrgHash(o)
	if err != nil {
		return "", err
	}
	return cache.Hash(append(chartData, orgHash...)), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
