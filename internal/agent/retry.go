/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// retryConfig bounds retries of transient reasoning-service errors.
// Backoffs are longer than typical because rate limits on model APIs are
// quota-based and take time to recover.
type retryConfig struct {
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	maxJitter   time.Duration
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries:  5,
		baseBackoff: 1 * time.Second,
		maxBackoff:  60 * time.Second,
		maxJitter:   500 * time.Millisecond,
	}
}

// isRetryableClaudeError reports whether an error is a transient Claude
// API error: rate limited, overloaded, or a gateway timeout.
func isRetryableClaudeError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}

// retryWithBackoff executes fn with exponential backoff, retrying only
// errors classified retryable.
func retryWithBackoff[T any](ctx context.Context, cfg retryConfig, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}
		if !isRetryable(lastErr) {
			return result, lastErr
		}
		if attempt >= cfg.maxRetries {
			break
		}

		backoff := min(cfg.baseBackoff<<attempt, cfg.maxBackoff)
		if cfg.maxJitter > 0 {
			backoff += rand.N(cfg.maxJitter)
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("backoff", backoff).
			With("error", lastErr.Error()).
			Warn("Transient reasoning-service error, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.maxRetries, lastErr)
}
