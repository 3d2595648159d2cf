package cache

import (
	"context"
	"time"

	"github.com/matzehuels/orgmorph/pkg/observability"
)

type instrumented struct {
	Cache
}

// Instrument reports every Get as a hit or miss, and every Set, to the
// registered cache hooks. Hooks are looked up per call, so registration
// order does not matter.
func Instrument(c Cache) Cache {
	if c == nil {
		return nil
	}
	return instrumented{c}
}

func (i instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := i.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (i instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := i.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}
