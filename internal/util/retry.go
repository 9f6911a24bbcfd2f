package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"
)

// Backoff holds retry configuration for store writes.
type Backoff struct {
	Attempts    int           // Maximum number of attempts
	InitialWait time.Duration // Initial wait duration (doubled each retry)
	MaxWait     time.Duration // Maximum wait duration between retries
}

// StoreBackoff returns the retry configuration for networked store
// operations.
func StoreBackoff() *Backoff {
	return &Backoff{
		Attempts:    3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     5 * time.Second,
	}
}

// IsTransient reports whether an error is worth retrying. Only network
// level failures qualify; application errors fail immediately.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EAGAIN,
			syscall.ETIMEDOUT,
			syscall.ECONNRESET,
			syscall.ECONNABORTED,
			syscall.ECONNREFUSED,
			syscall.ENETDOWN,
			syscall.ENETUNREACH,
			syscall.EHOSTDOWN,
			syscall.EHOSTUNREACH:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	patterns := []string{
		"timeout",
		"timed out",
		"connection reset",
		"connection refused",
		"connection aborted",
		"broken pipe",
		"no route to host",
		"network is unreachable",
		"network is down",
		"temporary failure",
		"service unavailable",
		"too many requests",
	}
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Retry executes operation with exponential backoff, stopping early on
// context cancellation or a non-transient error.
func Retry(ctx context.Context, cfg *Backoff, name string, operation func() error) error {
	if cfg == nil {
		cfg = StoreBackoff()
	}

	wait := cfg.InitialWait
	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err = operation()
		if err == nil {
			if attempt > 1 {
				DebugLog("Retry: %s succeeded on attempt %d/%d", name, attempt, cfg.Attempts)
			}
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == cfg.Attempts {
			WarnLog("Retry: %s failed after %d attempts: %v", name, cfg.Attempts, err)
			return fmt.Errorf("max retries exceeded (%d attempts): %w", cfg.Attempts, err)
		}

		DebugLog("Retry: %s failed (attempt %d/%d), retrying in %v: %v",
			name, attempt, cfg.Attempts, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > cfg.MaxWait {
			wait = cfg.MaxWait
		}
	}
	return err
}
