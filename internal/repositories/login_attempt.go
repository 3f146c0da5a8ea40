package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-game-scores/internal/logger"
)

// LoginAttemptRepository counts failed logins per email in Redis.
type LoginAttemptRepository struct {
	client *redis.Client
	window time.Duration // lifetime of a counter after its first failure
}

func NewLoginAttemptRepository(client *redis.Client, window time.Duration) *LoginAttemptRepository {
	return &LoginAttemptRepository{client: client, window: window}
}

func loginAttemptKey(email string) string {
	return "login_attempts:" + email
}

// Get returns the current number of failed attempts for email.
func (r *LoginAttemptRepository) Get(ctx context.Context, email string) (int64, error) {
	key := loginAttemptKey(email)

	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		n, err = 0, nil
	}

	logger.Log.Infow(
		"key", key,
		"result", n,
		"error", err,
	)

	return n, err
}

// Increment records a failed attempt and returns the new count.
// The window starts with the first failure.
func (r *LoginAttemptRepository) Increment(ctx context.Context, email string) (int64, error) {
	key := loginAttemptKey(email)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, r.window)
	_, err := pipe.Exec(ctx)

	n := incr.Val()
	logger.Log.Infow(
		"key", key,
		"result", n,
		"error", err,
	)

	return n, err
}

// Reset clears the failed attempts for email.
func (r *LoginAttemptRepository) Reset(ctx context.Context, email string) error {
	key := loginAttemptKey(email)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "deleted",
		"error", err,
	)

	return err
}
