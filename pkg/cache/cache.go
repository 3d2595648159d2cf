// Package cache stores computed charts and rendered artifacts.
//
// Layout runs are keyed by a hash of the organisation snapshot and the
// layout options, so an unchanged roster renders instantly. Rendered
// artifacts are keyed by the layout hash and the output format.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry under the user cache dir
//   - [RedisCache]: shared cache with native expiry
//   - [NullCache]: disables caching (--no-cache)
//
// [Instrument] wraps any backend and reports hits and misses to the
// registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value cache with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(orgHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs that change the computed chart.
type LayoutKeyOpts struct {
	View           string  `json:"view"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	Strategy       string  `json:"strategy,omitempty"`
	RowThreshold   int     `json:"row_threshold,omitempty"`
}

// ArtifactKeyOpts are the render inputs that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Diagram   string  `json:"diagram,omitempty"`
	Seniority bool    `json:"seniority,omitempty"`
	Animate   bool    `json:"animate,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"`
	Zoom      float64 `json:"zoom,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Title     string  `json:"title,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the organisation hash together with opts.
func (DefaultKeyer) LayoutKey(orgHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, orgHash, opts)
}

// ArtifactKey hashes the layout hash together with opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}

// Key types, used as key prefixes and metric labels.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)
