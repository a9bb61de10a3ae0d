package device

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueClosed is returned by Submit and Drain after Close, and is the
	// completion error of requests dropped at teardown.
	ErrQueueClosed = errors.New("device queue closed")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// QueueFullError is returned by Submit when MaxPending requests are already
// queued or in flight. The API maps it to HTTP 429.
type QueueFullError struct {
	Device   string
	Current  int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("%s queue full: %d/%d", e.Device, e.Current, e.Capacity)
}

func invalidf(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, v...))
}
