package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"quiz-engine/internal/cache"
	"quiz-engine/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements domain.SessionStore by storing each session
// state as a JSON blob under quizengine:session:state:<token> with a TTL.
// Session loss only costs the visitor their cursor; the attempt row stays.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a new RedisSessionStore with the given TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) domain.SessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return cache.GenerateCacheKey("session", "state", token)
}

// Save implements domain.SessionStore. Each save refreshes the TTL, so a
// session stays alive as long as the visitor keeps answering.
func (s *RedisSessionStore) Save(ctx context.Context, token string, state *domain.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(token), string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// Get implements domain.SessionStore
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*domain.SessionState, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &state, nil
}

// Delete implements domain.SessionStore
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// MemorySessionStore is a map-backed domain.SessionStore for tests and
// single-node development. States are copied on the way in and out so
// callers cannot mutate stored state behind the store's back.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionState
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domain.SessionState)}
}

// Save implements domain.SessionStore
func (s *MemorySessionStore) Save(ctx context.Context, token string, state *domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	copied.QuestionIDs = append([]string(nil), state.QuestionIDs...)
	s.sessions[token] = copied
	return nil
}

// Get implements domain.SessionStore
func (s *MemorySessionStore) Get(ctx context.Context, token string) (*domain.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := state
	copied.QuestionIDs = append([]string(nil), state.QuestionIDs...)
	return &copied, nil
}

// Delete implements domain.SessionStore
func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
