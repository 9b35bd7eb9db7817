// Package cache holds the Redis-backed session store: refresh-session
// records and revoked-token markers, each namespace with its own TTL.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshSessionPrefix = "refresh_session:"
	tokenBlacklistPrefix = "token_blacklist:"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func sessionKey(sessionID string) string {
	return refreshSessionPrefix + sessionID
}

func blacklistKey(token string) string {
	return tokenBlacklistPrefix + token
}

func (s *RedisStore) SaveRefreshSession(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(sessionID), strconv.FormatInt(userID, 10), ttl).Err()
}

// GetRefreshSessionUser returns the owning user id for a session, or
// ok=false when the session is absent, expired, or rotated out.
func (s *RedisStore) GetRefreshSessionUser(ctx context.Context, sessionID string) (int64, bool, error) {
	value, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return userID, true, nil
}

func (s *RedisStore) DeleteRefreshSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

// BlacklistToken marks a raw token as revoked for the remaining lifetime of
// its token class. Entries expire together with the token itself, so the
// namespace never grows without bound.
func (s *RedisStore) BlacklistToken(ctx context.Context, rawToken string, ttl time.Duration) error {
	if rawToken == "" {
		return nil
	}
	return s.client.Set(ctx, blacklistKey(rawToken), "1", ttl).Err()
}

func (s *RedisStore) IsTokenBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	if rawToken == "" {
		return true, nil
	}
	count, err := s.client.Exists(ctx, blacklistKey(rawToken)).Result()
	if err != nil {
		return false, err
	}
	return count == 1, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
