package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps session snapshots as JSON values under session:<id>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// A RedisOption adjusts the store.
type RedisOption func(*RedisStore)

// WithTTL expires sessions after the given duration. Zero (the default)
// keeps them until deleted.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = d
	}
}

// NewRedisStore wraps an existing client. A nil logger disables logging.
func NewRedisStore(client *redis.Client, log *zap.SugaredLogger, opts ...RedisOption) *RedisStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &RedisStore{client: client, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) Put(ctx context.Context, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session: encoding %s: %w", st.ID, err)
	}
	if err := s.client.Set(ctx, sessionKey(st.ID), data, s.ttl).Err(); err != nil {
		s.log.Errorf("store session %s: %v", st.ID, err)
		return fmt.Errorf("session: storing %s: %w", st.ID, err)
	}
	s.log.Infof("session %s saved", st.ID)
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (State, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("session: fetching %s: %w", id, err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("session: decoding %s: %w", id, err)
	}
	return st, nil
}

// List scans for session keys and fetches each value. Entries that expire
// mid-scan are skipped.
func (s *RedisStore) List(ctx context.Context) ([]State, error) {
	var states []State
	iter := s.client.Scan(ctx, 0, sessionKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("session: fetching %s: %w", iter.Val(), err)
		}
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			s.log.Warnf("decode session %s: %v", iter.Val(), err)
			continue
		}
		states = append(states, st)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("session: scanning: %w", err)
	}
	return states, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("session: deleting %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Infof("session %s deleted", id)
	return nil
}
