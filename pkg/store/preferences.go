package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/matzehuels/orgmorph/pkg/chart"
	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/layout"
)

// Preferences are the persisted display settings.
type Preferences struct {
	CurrentView   string  `json:"currentView"`
	ShowSeniority bool    `json:"showSeniority"`
	Zoom          float64 `json:"zoom"`
}

// DefaultPreferences returns {hierarchical, false, 1}.
func DefaultPreferences() Preferences {
	return Preferences{CurrentView: chart.ViewHierarchical, Zoom: layout.DefaultZoom}
}

// LoadPreferences returns the stored preferences merged over the defaults.
// Unreadable preferences yield the defaults.
func (s *Snapshots) LoadPreferences(ctx context.Context) (Preferences, error) {
	p := DefaultPreferences()
	data, err := s.store.Get(ctx, PreferencesKey)
	if stderrors.Is(err, ErrNotFound) {
		return p, nil
	}
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeStorage, err, "load preferences")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPreferences(), nil
	}
	if !chart.ValidView(p.CurrentView) {
		p.CurrentView = chart.ViewHierarchical
	}
	p.Zoom = layout.ClampZoom(p.Zoom)
	return p, nil
}

// SavePreferences writes p.
func (s *Snapshots) SavePreferences(ctx context.Context, p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, PreferencesKey, data); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save preferences")
	}
	return nil
}

// UpdatePreferences loads, applies fn and saves.
func (s *Snapshots) UpdatePreferences(ctx context.Context, fn func(*Preferences)) (Preferences, error) {
	p, err := s.LoadPreferences(ctx)
	if err != nil {
		return p, err
	}
	fn(&p)
	return p, s.SavePreferences(ctx, p)
}

// ResetPreferences deletes stored preferences.
func (s *Snapshots) ResetPreferences(ctx context.Context) error {
	return s.store.Delete(ctx, PreferencesKey)
}
