/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry re-attempts calls to rate-limited APIs, waiting for as long
// as the server asks or, when it does not say, with capped exponential backoff.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// ErrWaitTooLong is returned when the server asks for a longer wait than
// Config.MaxWait allows.
var ErrWaitTooLong = errors.New("requested wait exceeds the limit")

// Config configures retry behavior.
type Config struct {
	// MaxRetries is the maximum number of retry attempts. 0 disables retries.
	MaxRetries int
	// BaseBackoff is the first wait when the server gives no hint.
	BaseBackoff time.Duration
	// MaxBackoff caps the exponential backoff. 0 leaves it uncapped.
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to each wait.
	MaxJitter time.Duration
	// MaxWait bounds a server-requested wait, such as a primary rate limit
	// reset an hour away. Longer waits fail with ErrWaitTooLong. 0 means no bound.
	MaxWait time.Duration
}

// Validate checks that the configuration has no negative values.
func (c Config) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return errors.New("max retries cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	case c.MaxWait < 0:
		return errors.New("max wait cannot be negative")
	}
	return nil
}

// DefaultConfig suits GitHub: secondary limits usually clear within a
// minute, and a primary limit reset is worth waiting a quarter hour for.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseBackoff: 2 * time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
		MaxWait:     15 * time.Minute,
	}
}

// Decision is a Classifier's verdict on a failed attempt.
type Decision struct {
	// Retry reports whether the call may be attempted again.
	Retry bool
	// Reason names the failure class in logs, e.g. "secondary rate limit".
	Reason string
	// After is the wait the server asked for. Zero falls back to Backoff.
	After time.Duration
}

// Classifier inspects an error returned by the retried call.
type Classifier func(error) Decision

// Do calls fn until it succeeds, returns an error classify does not retry,
// or MaxRetries retries have been spent.
func Do[T any](ctx context.Context, cfg Config, operation string, classify Classifier, fn func() (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		d := classify(err)
		if !d.Retry {
			return result, err
		}
		if d.Reason == "" {
			d.Reason = "retryable error"
		}
		if attempt >= cfg.MaxRetries {
			return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, err)
		}

		wait := d.After
		if wait <= 0 {
			wait = Backoff(cfg, attempt)
		} else if cfg.MaxWait > 0 && wait > cfg.MaxWait {
			return result, fmt.Errorf("%s: %s clears in %s: %w: %w",
				operation, d.Reason, wait.Round(time.Second), ErrWaitTooLong, err)
		}
		if j := jitter(cfg.MaxJitter); wait <= math.MaxInt64-j {
			wait += j
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("wait", wait).
			With("error", err.Error()).
			Warnf("%s, retrying", d.Reason)

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Backoff returns BaseBackoff * 2^attempt, capped at MaxBackoff and never
// overflowing, however large attempt is.
func Backoff(cfg Config, attempt int) time.Duration {
	d := cfg.BaseBackoff
	if d <= 0 {
		return 0
	}
	for range max(attempt, 0) {
		if cfg.MaxBackoff > 0 && d >= cfg.MaxBackoff {
			break
		}
		if d > math.MaxInt64/2 {
			d = math.MaxInt64
			break
		}
		d *= 2
	}
	if cfg.MaxBackoff > 0 {
		d = min(d, cfg.MaxBackoff)
	}
	return d
}

func jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
