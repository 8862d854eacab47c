package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/aptitude-quiz/internal/config"
	"github.com/stemsi/aptitude-quiz/internal/model"
)

// ErrSessionNotFound is returned when no live session has the given ID.
var ErrSessionNotFound = errors.New("quiz session not found")

// SessionRepository stores live quiz sessions. Records expire after the
// configured TTL; nothing outlives it.
type SessionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ─── In-memory ─────────────────────────────────────────────────────────

type memoryEntry struct {
	session   model.Session
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository creates an in-memory repository.
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[uuid.UUID]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the stored session.
func (r *MemorySessionRepository) Get(_ context.Context, id uuid.UUID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.ttl > 0 && r.now().After(e.expiresAt) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	s := e.session
	s.Questions = append([]model.Question(nil), e.session.Questions...)
	return &s, nil
}

// Save stores a copy of s and refreshes its expiry.
func (r *MemorySessionRepository) Save(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	cp.Questions = append([]model.Question(nil), s.Questions...)
	r.sessions[s.ID] = memoryEntry{session: cp, expiresAt: r.now().Add(r.ttl)}
	return nil
}

// Delete removes the session if present.
func (r *MemorySessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *MemorySessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.sessions {
		if r.ttl > 0 && now.After(e.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// ─── Redis ─────────────────────────────────────────────────────────────

// RedisSessionRepository keeps sessions as JSON strings with a TTL.
type RedisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository creates a Redis-backed repository.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

// Get loads and decodes a session.
func (r *RedisSessionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.QuizSessionKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save encodes the session and refreshes its TTL.
func (r *RedisSessionRepository) Save(ctx context.Context, s *model.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, config.CacheKey.QuizSessionKey(s.ID.String()), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Delete removes the session key.
func (r *RedisSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, config.CacheKey.QuizSessionKey(id.String())).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
