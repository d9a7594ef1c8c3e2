// Package session keeps survey sessions in a cache backend so that a
// homeowner's progress survives between HTTP requests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/pmicheck/internal/cache"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/survey"
)

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

const (
	keyPrefix   = "session:"
	lockStripes = 64
)

// Store persists session snapshots as JSON
type Store struct {
	cache cache.Cache
	ttl   time.Duration
	opts  []survey.Option
	locks [lockStripes]sync.Mutex
}

// NewStore creates a store over c. Sessions expire ttl after their last save.
func NewStore(c cache.Cache, ttl time.Duration, opts ...survey.Option) *Store {
	return &Store{
		cache: c,
		ttl:   ttl,
		opts:  opts,
	}
}

// NewCache builds the session backend named by cfg.Backend
func NewCache(cfg model.SessionConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis session backend requires redis_addr")
		}
		return cache.NewRedisCache(cfg.RedisAddr, cache.KeyPrefix, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}

// Create opens a session on the first survey step and saves it
func (s *Store) Create(ctx context.Context) (*survey.Session, error) {
	sess := survey.NewSession(NewID(), s.opts...)
	if err := sess.Controller().Start(); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load restores a session. The returned session has no submit trigger.
func (s *Store) Load(ctx context.Context, id string) (*survey.Session, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}

	data, ok := s.cache.Get(ctx, keyPrefix+id)
	if !ok {
		return nil, ErrNotFound
	}

	var snap survey.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return survey.Restore(snap, s.opts...)
}

// Save writes the session and resets its expiry
func (s *Store) Save(ctx context.Context, sess *survey.Session) error {
	data, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := s.cache.Set(ctx, keyPrefix+sess.ID, data, s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Update loads a session, applies fn and saves the result. Updates to the
// same id are serialized. Nothing is saved when fn returns an error.
func (s *Store) Update(ctx context.Context, id string, fn func(*survey.Session) error) (*survey.Session, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return sess, err
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete drops a session
func (s *Store) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	return s.cache.Delete(ctx, keyPrefix+id)
}

func (s *Store) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}

// NewID returns a random session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a UUID in the canonical form NewID produces
func ValidID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}
