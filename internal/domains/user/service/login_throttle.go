package service

import (
	"context"
	"fmt"
	"time"

	"gallery-backend/pkg/cache"
	"gallery-backend/pkg/logger"
)

// loginThrottle đếm số lần login sai theo email và khóa tạm khi vượt ngưỡng.
// Counter sống trong một cửa sổ bằng thời gian khóa.
type loginThrottle struct {
	cache       cache.Cache
	maxAttempts int
	lockout     time.Duration
}

func newLoginThrottle(c cache.Cache, maxAttempts int, lockout time.Duration) *loginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &loginThrottle{cache: c, maxAttempts: maxAttempts, lockout: lockout}
}

func attemptKey(key string) string { return fmt.Sprintf("failed_login:%s", key) }
func lockKey(key string) string    { return fmt.Sprintf("account_locked:%s", key) }

// Locked reports whether key is inside a lockout window
func (t *loginThrottle) Locked(ctx context.Context, key string) (bool, error) {
	locked, err := t.cache.Exists(ctx, lockKey(key))
	if err != nil {
		return false, fmt.Errorf("check lock status: %w", err)
	}
	return locked, nil
}

// Fail ghi nhận một lần login sai, trả true khi lần này kích hoạt khóa
func (t *loginThrottle) Fail(ctx context.Context, key string) (bool, error) {
	attempts, err := t.cache.Increment(ctx, attemptKey(key))
	if err != nil {
		return false, fmt.Errorf("increment counter: %w", err)
	}

	// Set expiry on first attempt
	if attempts == 1 {
		if err := t.cache.Expire(ctx, attemptKey(key), t.lockout); err != nil {
			logger.Error("Failed to set expiry", err)
		}
	}

	if attempts < int64(t.maxAttempts) {
		return false, nil
	}

	if err := t.cache.Set(ctx, lockKey(key), "1", t.lockout); err != nil {
		return false, fmt.Errorf("lock account: %w", err)
	}
	if err := t.cache.Delete(ctx, attemptKey(key)); err != nil {
		logger.Error("Failed to clear login counter", err)
	}

	logger.Warn("Account locked", map[string]interface{}{
		"key":      key,
		"attempts": attempts,
		"duration": t.lockout.String(),
	})
	return true, nil
}

// Reset xóa counter sau khi login thành công
func (t *loginThrottle) Reset(ctx context.Context, key string) {
	if err := t.cache.Delete(ctx, attemptKey(key)); err != nil {
		logger.Error("Failed to reset login counter", err)
	}
}
