// Package session caches the filtered subset per browser session, so the
// views depending on one filter operation read it instead of recomputing it.
package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"exodash/domain/exoplanet"
	"exodash/internal"
	"exodash/internal/errors"
	"exodash/ports"
)

// Subset is a decoded cache entry.
type Subset struct {
	Key     string
	Filter  exoplanet.Filter
	Columns []string
	Records []exoplanet.Record
}

// Empty reports the "insufficient selection" state.
func (s *Subset) Empty() bool {
	return len(s.Records) == 0
}

// Cache stores subsets as split payloads in a ports.SubsetStore.
type Cache struct {
	store  ports.SubsetStore
	group  singleflight.Group
	logger *internal.Logger

	janitorOnce sync.Once
	stop        chan struct{}
	done        chan struct{}
}

// NewCache wraps store
func NewCache(store ports.SubsetStore, logger *internal.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// GetOrCompute returns the cached subset for (sessionID, f), computing and
// storing it on a miss. Concurrent calls for the same entry share one
// computation.
func (c *Cache) GetOrCompute(ctx context.Context, sessionID string, f exoplanet.Filter, columns []string, compute func() []exoplanet.Record) (*Subset, error) {
	key := f.Key()
	v, err, shared := c.group.Do(sessionID+"\x00"+key, func() (interface{}, error) {
		payload, ok, err := c.store.Get(ctx, sessionID, key)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read cached subset")
		}
		if !ok {
			payload, err = Encode(f, columns, compute())
			if err != nil {
				return nil, err
			}
		}
		// re-put on hits too, so Latest follows the most recent selection
		if err := c.store.Put(ctx, sessionID, key, payload); err != nil {
			return nil, errors.Wrap(err, "failed to store subset")
		}
		c.logger.Debug("[SessionCache] session=%s key=%s hit=%t bytes=%d", sessionID, key, ok, len(payload))
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Trace("[SessionCache] shared computation for session=%s key=%s", sessionID, key)
	}
	return decodeSubset(key, v.([]byte))
}

// Load returns the subset stored under key
func (c *Cache) Load(ctx context.Context, sessionID, key string) (*Subset, error) {
	payload, ok, err := c.store.Get(ctx, sessionID, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cached subset")
	}
	if !ok {
		return nil, errors.NotFound("filtered subset")
	}
	return decodeSubset(key, payload)
}

// Latest returns the most recently stored subset of the session
func (c *Cache) Latest(ctx context.Context, sessionID string) (*Subset, error) {
	key, ok, err := c.store.Latest(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read latest subset key")
	}
	if !ok {
		return nil, errors.NotFound("filtered subset")
	}
	return c.Load(ctx, sessionID, key)
}

// StartJanitor expires idle sessions every interval until Stop is called.
func (c *Cache) StartJanitor(interval, ttl time.Duration) {
	c.janitorOnce.Do(func() {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go func() {
			defer close(c.done)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					n, err := c.store.Expire(context.Background(), ttl)
					if err != nil {
						c.logger.Warn("[SessionCache] expiry failed: %v", err)
						continue
					}
					if n > 0 {
						c.logger.Debug("[SessionCache] expired %d subsets", n)
					}
				case <-c.stop:
					return
				}
			}
		}()
	})
}

// Stop halts the janitor and waits for it to exit.
func (c *Cache) Stop() {
	if c.stop == nil {
		return
	}
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	<-c.done
}

func decodeSubset(key string, payload []byte) (*Subset, error) {
	f, columns, records, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return &Subset{Key: key, Filter: f, Columns: columns, Records: records}, nil
}
