package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"ggmarket/internal/utils"
)

// CacheService is the slice of the redis cache the repositories need for
// cache-aside reads and write-path invalidation.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// storeError classifies a driver failure at the repository boundary so the
// layers above never inspect mongo errors directly. Network-class failures
// become transient (retryable); duplicate keys become conflicts; everything
// else is wrapped as-is.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		return utils.NewConflictError("DUPLICATE_KEY", fmt.Sprintf("duplicate key during %s", op))
	}

	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return utils.NewTransientError(op, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
