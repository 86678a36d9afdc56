package model

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// RateLimitError signals the provider refused the call due to rate limiting.
// The orchestration loop retries these with exponential backoff.
type RateLimitError struct {
	Provider string
	Message  string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rate limited", e.Provider)
	}
	return fmt.Sprintf("%s: rate limited: %s", e.Provider, e.Message)
}

// TimeoutError signals the provider call exceeded its deadline. The
// orchestration loop retries these immediately, without backoff.
type TimeoutError struct {
	Provider string
	Cause    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// IsRateLimit reports whether err carries a rate-limit signal.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// IsTimeout reports whether err carries a timeout signal, either as an
// explicit TimeoutError or as a deadline / net timeout from the transport.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var to *TimeoutError
	if errors.As(err, &to) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
