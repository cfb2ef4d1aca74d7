package session

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

// #region store
// Store keeps live sessions in memory, evicting the least recently used
// once capacity is reached. Participants are isolated: no state is shared
// between sessions.
type Store struct {
	cfg   Config
	cache *lru.Cache
}

// NewStore creates a store holding at most capacity sessions.
func NewStore(cfg Config, capacity int) (*Store, error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Store{cfg: cfg, cache: cache}, nil
}

// Create starts a new session with a fresh random ID.
func (st *Store) Create() *Session {
	s := New(uuid.New().String(), st.cfg)
	st.cache.Add(s.ID, s)
	return s
}

// Get looks up a live session.
func (st *Store) Get(id string) (*Session, bool) {
	v, ok := st.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Delete drops a session.
func (st *Store) Delete(id string) {
	st.cache.Remove(id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	return st.cache.Len()
}

// #endregion store
