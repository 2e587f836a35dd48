package session

import (
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store keeps sessions in memory. A session that is not touched for ttl is
// dropped along with all of its state.
type Store struct {
	cache *cache.Cache
}

func NewStore(ttl, cleanupInterval time.Duration) *Store {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(id string, _ interface{}) {
		slog.Debug("Session expired", "session_id", id)
	})
	return &Store{
		cache: c,
	}
}

// Get returns the session and refreshes its expiry.
func (s *Store) Get(id string) (*State, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	state := x.(*State)
	s.cache.Set(id, state, cache.DefaultExpiration)
	return state, true
}

func (s *Store) Save(state *State) {
	s.cache.Set(state.ID, state, cache.DefaultExpiration)
}

// GetOrCreate returns the session for id, or a new empty one when id is
// unknown or expired.
func (s *Store) GetOrCreate(id string) (*State, bool) {
	if id != "" {
		if state, ok := s.Get(id); ok {
			return state, false
		}
	}
	state := New()
	s.Save(state)
	slog.Info("Session started", "session_id", state.ID)
	return state, true
}

func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Len() int {
	return s.cache.ItemCount()
}
