package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyNamespace = "storefront:cart"
	lockTTL           = 5 * time.Second
	lockWait          = 2 * time.Second
	lockRetryInterval = 20 * time.Millisecond
)

// cmdable is the subset of the redis client the store uses.
type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	redis.Scripter
}

// unlockScript deletes the lock key only while it still holds the caller's owner token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps carts as JSON in Redis with a sliding TTL.
// Updates are serialized per session with a SETNX lock.
type RedisStore struct {
	client cmdable
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. client is usually a *redis.Client.
func NewRedisStore(client cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return redisKeyNamespace + ":" + sessionID
}

func lockKey(sessionID string) string {
	return cartKey(sessionID) + ":lock"
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// lock acquires the session lock, retrying until lockWait elapses.
func (s *RedisStore) lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockKey(sessionID)
	owner := uuid.NewString()
	deadline := time.NewTimer(lockWait)
	defer deadline.Stop()
	retry := time.NewTicker(lockRetryInterval)
	defer retry.Stop()

	for {
		ok, err := s.client.SetNX(ctx, key, owner, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to lock cart session: %w", err)
		}
		if ok {
			return func() { s.unlock(key, owner) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrSessionLocked
		case <-retry.C:
		}
	}
}

// unlock frees the lock only if this request still owns it.
func (s *RedisStore) unlock(key, owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = unlockScript.Run(ctx, s.client, []string{key}, owner).Err()
}
