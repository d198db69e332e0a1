package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/crownvoyages/backoffice/internal/cache"
)

// ErrSessionNotFound is returned when a wizard session id is unknown or
// its cache entry has expired.
var ErrSessionNotFound = errors.New("wizard session not found")

// Store persists wizard sessions in the cache so a page reload does not
// lose already-saved rooms.
type Store struct {
	kv  cache.KV
	ttl time.Duration
}

func NewStore(kv cache.KV, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

func (s *Store) key(id string) string { return "wizard:" + id }

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.kv.Get(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load wizard session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode wizard session: %w", err)
	}
	return &session, nil
}

func (s *Store) Put(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode wizard session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(session.ID), raw, s.ttl); err != nil {
		return fmt.Errorf("store wizard session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Del(ctx, s.key(id)); err != nil {
		return fmt.Errorf("delete wizard session: %w", err)
	}
	return nil
}
