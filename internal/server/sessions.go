package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/vegasq/securecheck/dataset"
)

// session is one uploaded dataset. The dataset is immutable, so concurrent
// queries against the same session need no locking.
type session struct {
	id       string
	source   string
	dataset  *dataset.Dataset
	uploaded time.Time
}

// sessionStore keeps datasets per session id and expires idle sessions.
type sessionStore struct {
	cache *ttlcache.Cache[string, *session]
}

func newSessionStore(ttl time.Duration, capacity uint64) *sessionStore {
	opts := []ttlcache.Option[string, *session]{
		ttlcache.WithTTL[string, *session](ttl),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, *session](capacity))
	}
	return &sessionStore{cache: ttlcache.New[string, *session](opts...)}
}

// add stores ds under a fresh random id
func (s *sessionStore) add(source string, ds *dataset.Dataset) *session {
	sess := &session{
		id:       uuid.NewString(),
		source:   source,
		dataset:  ds,
		uploaded: time.Now().UTC(),
	}
	s.cache.Set(sess.id, sess, ttlcache.DefaultTTL)
	return sess
}

// get returns the session and extends its TTL
func (s *sessionStore) get(id string) (*session, bool) {
	item := s.cache.Get(id)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

func (s *sessionStore) remove(id string) bool {
	if !s.cache.Has(id) {
		return false
	}
	s.cache.Delete(id)
	return true
}

func (s *sessionStore) len() int {
	return s.cache.Len()
}

// start runs the expiry loop until stop is called
func (s *sessionStore) start() {
	s.cache.Start()
}

func (s *sessionStore) stop() {
	s.cache.Stop()
}
