// Package notify announces tracks with freedesktop desktop notifications.
package notify

import (
	"math"
	"time"
)

// Notification is one desktop popup.
type Notification struct {
	Summary  string
	Body     string
	Icon     string        // icon name or image path
	Replaces uint32        // popup to replace, 0 opens a new one
	Expire   time.Duration // 0 lets the server decide
}

// Notifier shows and dismisses notifications.
type Notifier interface {
	// Notify shows n and returns the id the server assigned to it.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// expireMillis converts an expiry to the protocol timeout, where -1 means
// the server default.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), math.MaxInt32)) //nolint:gosec // clamped above
}
