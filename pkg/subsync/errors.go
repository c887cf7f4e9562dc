package subsync

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBackendURL = errors.New("sync backend URL is required")
)

// SyncError reports a failed backend synchronization. The platform-side
// purchase record is never unwound by one of these; only the sync attempt
// failed, and the UI should say "purchase succeeded, sync pending" rather
// than surface a purchase failure.
type SyncError struct {
	CorrelationID string
	StatusCode    int
	Message       string
	Details       string
	Err           error
}

func (e *SyncError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "subscription sync failed"
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s (correlation_id=%s)", msg, e.CorrelationID)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt inside the same Sync call could
// help. Client-side rejections (4xx) never do.
func (e *SyncError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}
