package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orgerrors "github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/observability"
	"github.com/matzehuels/orgmorph/pkg/org"
)

var fixedNow = time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)

func newSnapshots() *Snapshots {
	return NewSnapshots(NewMemoryStore(), func() time.Time { return fixedNow })
}

func sample() *org.Organization {
	return &org.Organization{
		Version:  org.SchemaVersion,
		Director: org.Director{ID: "d", FirstName: "Marie", LastName: "Dubois"},
		People: []org.Person{
			{ID: "p", FirstName: "Jean", LastName: "Dupont", Craft: org.CraftCloud, Seniority: 2, ManagerID: "d"},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newSnapshots()

	o, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, o, "empty store loads nil")

	in := sample()
	require.NoError(t, s.Save(ctx, in))
	assert.Zero(t, in.LastUpdated, "Save must not modify its argument")

	o, err = s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, fixedNow.UnixMilli(), o.LastUpdated)
	assert.Equal(t, "Dupont", o.People[0].LastName)

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Positive(t, size)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"no version", `{"director":{"id":"d"},"developers":[]}`},
		{"no director", `{"version":"1.0","developers":[]}`},
		{"null director", `{"version":"1.0","director":null,"developers":[]}`},
		{"no developers", `{"version":"1.0","director":{"id":"d"}}`},
		{"developers not a list", `{"version":"1.0","director":{"id":"d"},"developers":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSnapshots()
			require.NoError(t, s.Store().Set(context.Background(), DataKey, []byte(tt.data)))
			_, err := s.Load(context.Background())
			assert.True(t, orgerrors.Is(err, orgerrors.ErrCodeInvalidSnapshot), "err = %v", err)
		})
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	s := newSnapshots()

	ok, err := s.CreateBackup(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "nothing to back up")

	err = s.RestoreBackup(ctx)
	assert.True(t, orgerrors.Is(err, orgerrors.ErrCodeBackupNotFound))

	require.NoError(t, s.Save(ctx, sample()))
	ok, err = s.CreateBackup(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	changed := sample()
	changed.People = []org.Person{}
	require.NoError(t, s.Save(ctx, changed))

	require.NoError(t, s.RestoreBackup(ctx))
	o, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, o.People, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newSnapshots()
	require.NoError(t, s.Save(ctx, sample()))
	_, err := s.CreateBackup(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SavePreferences(ctx, Preferences{CurrentView: "functional", Zoom: 1}))

	require.NoError(t, s.Clear(ctx))

	has, err := s.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, has)
	hasBackup, err := s.HasBackup(ctx)
	require.NoError(t, err)
	assert.False(t, hasBackup)
	size, _ := s.Size(ctx)
	assert.Zero(t, size)

	p, err := s.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, "functional", p.CurrentView, "preferences survive Clear")
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		p, err := newSnapshots().LoadPreferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), p)
		assert.Equal(t, Preferences{CurrentView: "hierarchical", Zoom: 1}, p)
	})

	t.Run("merge over defaults", func(t *testing.T) {
		s := newSnapshots()
		require.NoError(t, s.Store().Set(ctx, PreferencesKey, []byte(`{"showSeniority":true}`)))
		p, err := s.LoadPreferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, Preferences{CurrentView: "hierarchical", ShowSeniority: true, Zoom: 1}, p)
	})

	t.Run("corrupt falls back", func(t *testing.T) {
		s := newSnapshots()
		require.NoError(t, s.Store().Set(ctx, PreferencesKey, []byte(`not json`)))
		p, err := s.LoadPreferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), p)
	})

	t.Run("sanitised", func(t *testing.T) {
		s := newSnapshots()
		require.NoError(t, s.Store().Set(ctx, PreferencesKey, []byte(`{"currentView":"radial","zoom":9}`)))
		p, err := s.LoadPreferences(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hierarchical", p.CurrentView)
		assert.Equal(t, 1.5, p.Zoom)
	})

	t.Run("update", func(t *testing.T) {
		s := newSnapshots()
		p, err := s.UpdatePreferences(ctx, func(p *Preferences) { p.Zoom = 0.8 })
		require.NoError(t, err)
		assert.Equal(t, 0.8, p.Zoom)

		require.NoError(t, s.ResetPreferences(ctx))
		p, _ = s.LoadPreferences(ctx)
		assert.Equal(t, 1.0, p.Zoom)
	})
}

type recordingStoreHooks struct {
	observability.NoopStoreHooks
	loads, saves []string
}

func (h *recordingStoreHooks) OnLoad(_ context.Context, key string, _ int, _ error) {
	h.loads = append(h.loads, key)
}

func (h *recordingStoreHooks) OnSave(_ context.Context, key string, _ int, _ error) {
	h.saves = append(h.saves, key)
}

func TestSnapshotHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)

	ctx := context.Background()
	s := newSnapshots()
	require.NoError(t, s.Save(ctx, sample()))
	_, err := s.CreateBackup(ctx)
	require.NoError(t, err)
	_, err = s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{DataKey, BackupKey}, hooks.saves)
	assert.Equal(t, []string{DataKey}, hooks.loads)
}

type failingStore struct{ *MemoryStore }

func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSaveError(t *testing.T) {
	s := NewSnapshots(failingStore{NewMemoryStore()}, nil)
	err := s.Save(context.Background(), sample())
	assert.True(t, orgerrors.Is(err, orgerrors.ErrCodeStorage))
}
