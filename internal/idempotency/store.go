// Package idempotency remembers which Telegram updates were already handled,
// so a redelivered update does not replay a conversation step.
package idempotency

import (
	"context"
	"fmt"
	"time"
)

// Store records processed keys for a limited time.
type Store interface {
	// Claim marks key as processed and reports whether this call was the first to do so.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// UpdateKey builds the key for a Telegram update ID.
func UpdateKey(updateID int) string {
	return fmt.Sprintf("update:%d", updateID)
}
