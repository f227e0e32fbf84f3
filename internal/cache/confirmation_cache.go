package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/retailnet/retail_api/internal/utils"
)

// consumeScript deletes the key only when its stored email matches the
// caller's, so validation and consumption happen in one server-side step and
// a key can never be redeemed twice by concurrent requests. A mismatch leaves
// the entry untouched.
const consumeScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    redis.call("DEL", KEYS[1])
    return 1
end
return 0`

// ConfirmationCache issues and consumes short-lived single-use confirmation
// keys. One parametrized primitive backs account activation, password reset
// and order confirmation alike: the key maps to the subject email only.
type ConfirmationCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewConfirmationCache creates a ConfirmationCache with the given key TTL.
func NewConfirmationCache(redis *RedisClient, ttl time.Duration) *ConfirmationCache {
	return &ConfirmationCache{redis: redis, ttl: ttl}
}

func (c *ConfirmationCache) key(k string) string {
	return fmt.Sprintf("confirm:%s", k)
}

// Issue generates a random opaque key bound to the subject email and stores
// it with the configured TTL.
func (c *ConfirmationCache) Issue(ctx context.Context, email string) (string, error) {
	k, err := utils.GenerateConfirmationKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation key: %w", err)
	}
	if err := c.redis.Set(ctx, c.key(k), email, c.ttl); err != nil {
		return "", fmt.Errorf("failed to store confirmation key: %w", err)
	}
	// Diagnostic echo of the issued key; not a security control.
	log.Debug().Str("email", email).Str("key", k).Msg("confirmation key issued")
	return k, nil
}

// ValidateAndConsume checks the key against the expected email and deletes it
// on success. Returns false for an absent, expired or mismatched key; failed
// attempts do not consume the entry.
func (c *ConfirmationCache) ValidateAndConsume(ctx context.Context, key, email string) (bool, error) {
	res, err := c.redis.Eval(ctx, consumeScript, []string{c.key(key)}, email)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to consume confirmation key: %w", err)
	}
	n, ok := res.(int64)
	return ok && n == 1, nil
}
