package store

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/observability"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// Snapshots stores the current organisation and one backup copy.
type Snapshots struct {
	store Store
	now   func() time.Time
}

// NewSnapshots wraps s. A nil clock means time.Now.
func NewSnapshots(s Store, now func() time.Time) *Snapshots {
	if now == nil {
		now = time.Now
	}
	return &Snapshots{store: s, now: now}
}

// Store returns the underlying store.
func (s *Snapshots) Store() Store { return s.store }

// Save stamps LastUpdated with the current time in milliseconds and writes o.
// The caller's value is left untouched.
func (s *Snapshots) Save(ctx context.Context, o *org.Organization) error {
	stamped := *o
	stamped.LastUpdated = s.now().UnixMilli()

	data, err := json.Marshal(&stamped)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode snapshot")
	}
	err = s.store.Set(ctx, DataKey, data)
	observability.Store().OnSave(ctx, DataKey, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save snapshot")
	}
	return nil
}

// Load returns the stored snapshot, or nil when there is none.
func (s *Snapshots) Load(ctx context.Context) (*org.Organization, error) {
	data, err := s.store.Get(ctx, DataKey)
	if stderrors.Is(err, ErrNotFound) {
		observability.Store().OnLoad(ctx, DataKey, 0, nil)
		return nil, nil
	}
	observability.Store().OnLoad(ctx, DataKey, len(data), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load snapshot")
	}
	return DecodeSnapshot(data)
}

// DecodeSnapshot parses a stored snapshot. It requires a version, a
// director and a developers array.
func DecodeSnapshot(data []byte) (*org.Organization, error) {
	var probe struct {
		Version    string          `json:"version"`
		Director   json.RawMessage `json:"director"`
		Developers json.RawMessage `json:"developers"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "malformed snapshot")
	}
	switch {
	case probe.Version == "":
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot has no version")
	case isNull(probe.Director):
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot has no director")
	case !bytes.HasPrefix(bytes.TrimSpace(probe.Developers), []byte("[")):
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot has no developers list")
	}

	var o org.Organization
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "malformed snapshot")
	}
	return &o, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// CreateBackup copies the current snapshot to the backup slot. It reports
// false when there is nothing to back up.
func (s *Snapshots) CreateBackup(ctx context.Context) (bool, error) {
	data, err := s.store.Get(ctx, DataKey)
	if stderrors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStorage, err, "read snapshot for backup")
	}
	err = s.store.Set(ctx, BackupKey, data)
	observability.Store().OnSave(ctx, BackupKey, len(data), err)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStorage, err, "write backup")
	}
	return true, nil
}

// RestoreBackup replaces the current snapshot with the backup.
func (s *Snapshots) RestoreBackup(ctx context.Context) error {
	data, err := s.store.Get(ctx, BackupKey)
	if stderrors.Is(err, ErrNotFound) {
		return errors.New(errors.ErrCodeBackupNotFound, "no backup found")
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "read backup")
	}
	err = s.store.Set(ctx, DataKey, data)
	observability.Store().OnSave(ctx, DataKey, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "restore backup")
	}
	return nil
}

// HasBackup reports whether a backup exists.
func (s *Snapshots) HasBackup(ctx context.Context) (bool, error) {
	return s.exists(ctx, BackupKey)
}

// Clear removes the snapshot and its backup. Preferences are kept.
func (s *Snapshots) Clear(ctx context.Context) error {
	for _, key := range []string{DataKey, BackupKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", key)
		}
	}
	return nil
}

// HasData reports whether a snapshot is stored.
func (s *Snapshots) HasData(ctx context.Context) (bool, error) {
	return s.exists(ctx, DataKey)
}

// Size returns the stored snapshot size in bytes, or 0 when absent.
func (s *Snapshots) Size(ctx context.Context) (int, error) {
	data, err := s.store.Get(ctx, DataKey)
	if stderrors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "read snapshot")
	}
	return len(data), nil
}

func (s *Snapshots) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.store.Get(ctx, key)
	if stderrors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStorage, err, "read %s", key)
	}
	return true, nil
}
