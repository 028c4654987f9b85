package cache

import (
	"context"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"
)

// FlagStore keeps the per-session flags (isLoggedIn, userEmail, userRole) in
// a redis hash per session. No TTL: flags persist until an explicit Clear so
// they survive gateway restarts.
type FlagStore struct {
	client *redisv9.Client
}

func NewFlagStore(client *redisv9.Client) *FlagStore {
	return &FlagStore{client: client}
}

func (s *FlagStore) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.HSet(ctx, s.flagKey(sessionID), key, value).Err(); err != nil {
		return fmt.Errorf("redis set flag failed: %w", err)
	}
	return nil
}

func (s *FlagStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.flagKey(sessionID), key).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get flag failed: %w", err)
	}
	return value, true, nil
}

func (s *FlagStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.flagKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis clear flags failed: %w", err)
	}
	return nil
}

func (s *FlagStore) flagKey(sessionID string) string {
	return fmt.Sprintf("session:flags:%s", sessionID)
}
