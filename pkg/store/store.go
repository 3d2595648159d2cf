// Package store persists organisation snapshots and user preferences.
//
// A [Store] is a flat key/value store of JSON documents. Four backends are
// provided: [FileStore] (the CLI default), [MemoryStore], [RedisStore] and
// [MongoStore]. [Open] picks one from [Options].
//
// [Snapshots] layers the roster schema on top: the current snapshot lives
// under [DataKey], the single backup under [BackupKey] and preferences
// under [PreferencesKey].
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Storage keys.
const (
	DataKey        = "org_morphing_data"
	BackupKey      = "org_morphing_data_backup"
	PreferencesKey = "org_morphing_preferences"
)

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("store: key not found")

// Store is a key/value store of serialized documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
	Redis   RedisOptions
	Mongo   MongoOptions
}

// RedisOptions configures [RedisStore].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// MongoOptions configures [MongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// Open creates the store selected by opts.Backend. An empty backend means
// the file store under [DefaultDir].
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		var ropts []RedisOption
		if opts.Redis.Prefix != "" {
			ropts = append(ropts, WithPrefix(opts.Redis.Prefix))
		}
		s := NewRedisStore(opts.Redis.Addr, opts.Redis.Password, opts.Redis.DB, ropts...)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case BackendMongo:
		return NewMongoStore(ctx, opts.Mongo)
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

// DefaultDir returns $XDG_DATA_HOME/orgmorph, falling back to
// ~/.local/share/orgmorph.
func DefaultDir() (string, error) {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "orgmorph"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "orgmorph"), nil
}
