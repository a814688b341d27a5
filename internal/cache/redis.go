package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"canteenq/config"
	"github.com/redis/go-redis/v9"
)

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

// SessionTracker remembers which token a browser session booked. The entry
// lives for the session TTL and is cleared when the customer acknowledges
// completion or the token leaves the live set.
type SessionTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionTracker(client *redis.Client, ttl time.Duration) *SessionTracker {
	return &SessionTracker{client: client, ttl: ttl}
}

func (t *SessionTracker) SetToken(ctx context.Context, sessionID string, tokenID int64) error {
	return t.client.Set(ctx, sessionKey(sessionID), tokenID, t.ttl).Err()
}

func (t *SessionTracker) Token(ctx context.Context, sessionID string) (int64, bool, error) {
	raw, err := t.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (t *SessionTracker) Clear(ctx context.Context, sessionID string) error {
	return t.client.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID + ":token"
}
