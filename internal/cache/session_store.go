package cache

import (
	"context"
	"time"

	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const sessionBackend = "memory"

// SessionStore is the in-process counterpart of browser sessionStorage.
// Entries expire after the session TTL; every write extends the entry's lifetime.
type SessionStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

var _ exitintent.Storage = (*SessionStore)(nil)

// NewSessionStore creates a session store whose entries live for ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// GetItem returns the stored value for key
func (s *SessionStore) GetItem(_ context.Context, key string) (string, bool, error) {
	data, found := s.cache.Get(key)
	if !found {
		metrics.StorageOperationTotal.WithLabelValues(sessionBackend, "get", "miss").Inc()
		return "", false, nil
	}

	value, ok := data.(string)
	if !ok {
		// Only SetItem writes here, so a foreign type means the entry is unusable.
		s.cache.Delete(key)
		metrics.StorageOperationTotal.WithLabelValues(sessionBackend, "get", "error").Inc()
		return "", false, exitintent.ErrCorruptState
	}

	metrics.StorageOperationTotal.WithLabelValues(sessionBackend, "get", "hit").Inc()
	return value, true, nil
}

// SetItem stores value under key for one session TTL
func (s *SessionStore) SetItem(_ context.Context, key, value string) error {
	s.cache.Set(key, value, s.ttl)
	metrics.StorageOperationTotal.WithLabelValues(sessionBackend, "set", "success").Inc()
	return nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
