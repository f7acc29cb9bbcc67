// utils/retry.go
package utils

import (
	"strings"
	"time"
)

const maxReadRetries = 3

// WithReadRetry retries fn on transient connection errors with exponential
// backoff (100ms, 200ms, 400ms). Only safe for idempotent reads — writes are
// never routed through here so a failed write cannot be silently repeated.
func WithReadRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxReadRetries; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		time.Sleep(100 * time.Millisecond << attempt)
	}
	return err
}

func isTransient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "i/o timeout")
}
