package services

import (
	"context"

	"ggmarket/internal/utils"
	"ggmarket/pkg/retry"
)

// storeRetryConfig is the retry policy every service applies to its store
// calls. Only errors classified transient at the repository boundary are
// retried; application rejections return immediately.
func storeRetryConfig() *retry.Config {
	config := retry.DefaultConfig()
	config.RetryIf = utils.IsTransient
	return config
}

// withRetry runs a store call under the bounded retry policy. A transient
// error that survives the retry budget comes back in its terminal
// unavailable form; callers never see the intermediate transient code.
func withRetry(ctx context.Context, config *retry.Config, fn func(context.Context) error) error {
	err := retry.Do(ctx, config, fn)
	if err != nil && utils.IsTransient(err) {
		return utils.NewUnavailableError(err)
	}
	return err
}

// fetchWithRetry is withRetry for store calls that return a value.
func fetchWithRetry[T any](ctx context.Context, config *retry.Config, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := withRetry(ctx, config, func(ctx context.Context) error {
		var callErr error
		result, callErr = fn(ctx)
		return callErr
	})
	return result, err
}
