package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	payload  []byte
	storedAt time.Time
}

type sessionEntries struct {
	byKey     map[string]entry
	latestKey string
	touched   time.Time
}

// MemoryStore keeps subsets in process memory, one map per session.
// It implements ports.SubsetStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntries
	maxKeys  int
	now      func() time.Time
}

// NewMemoryStore creates a store keeping at most maxKeys subsets per session
// (0 means unlimited). The least recently stored key is evicted first.
func NewMemoryStore(maxKeys int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionEntries),
		maxKeys:  maxKeys,
		now:      time.Now,
	}
}

// Put stores payload for (sessionID, key)
func (s *MemoryStore) Put(ctx context.Context, sessionID, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &sessionEntries{byKey: make(map[string]entry)}
		s.sessions[sessionID] = sess
	}
	now := s.now()
	sess.byKey[key] = entry{payload: payload, storedAt: now}
	sess.latestKey = key
	sess.touched = now

	if s.maxKeys > 0 && len(sess.byKey) > s.maxKeys {
		oldestKey := ""
		var oldest time.Time
		for k, e := range sess.byKey {
			if k == key {
				continue
			}
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey, oldest = k, e.storedAt
			}
		}
		delete(sess.byKey, oldestKey)
	}
	return nil
}

// Get returns the payload stored for (sessionID, key)
func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	e, ok := sess.byKey[key]
	if !ok {
		return nil, false, nil
	}
	return e.payload, true, nil
}

// Latest returns the key of the most recent Put for the session
func (s *MemoryStore) Latest(ctx context.Context, sessionID string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.latestKey == "" {
		return "", false, nil
	}
	if _, ok := sess.byKey[sess.latestKey]; !ok {
		return "", false, nil
	}
	return sess.latestKey, true, nil
}

// Expire drops sessions not written to within ttl
func (s *MemoryStore) Expire(ctx context.Context, ttl time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			removed += len(sess.byKey)
			delete(s.sessions, id)
		}
	}
	return removed, nil
}
