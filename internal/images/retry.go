package images

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for API calls.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts (default: 3)
	BaseDelay  time.Duration // Initial delay between retries (default: 100ms)
	MaxDelay   time.Duration // Maximum delay between retries (default: 5s)
	Multiplier float64       // Delay multiplier for exponential backoff (default: 2.0)
	EnableLog  bool          // Whether to log retry attempts
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		EnableLog:  true,
	}
}

type retryableFunc func(ctx context.Context) ([]Image, error)

// withRetry wraps a search with exponential backoff.
func withRetry(ctx context.Context, query string, cfg RetryConfig, fn retryableFunc) ([]Image, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 0 && cfg.EnableLog {
				log.Printf("[Images] Search %q succeeded on attempt %d", query, attempt+1)
			}
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			if cfg.EnableLog {
				log.Printf("[Images] Non-retryable error for %q: %v", query, err)
			}
			return nil, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := calculateDelay(attempt, cfg)
			if cfg.EnableLog {
				log.Printf("[Images] Attempt %d for %q failed (%v), retrying in %v...", attempt+1, query, err, delay)
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if cfg.EnableLog {
		log.Printf("[Images] All %d attempts for %q failed", cfg.MaxRetries+1, query)
	}

	var searchErr *SearchError
	if errors.As(lastErr, &searchErr) {
		searchErr.Retryable = false // Already exhausted retries
		return nil, lastErr
	}
	return nil, &SearchError{Query: query, Err: lastErr, Retryable: false}
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		return searchErr.Retryable
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}
	return isRetryableError(err)
}

// calculateDelay computes exponential backoff with jitter.
func calculateDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	// Randomize between 80% and 120% to prevent thundering herd
	jitter := 0.8 + rand.Float64()*0.4
	delay *= jitter
	return time.Duration(delay)
}
