// Package backend provides the storage targets that the device queue's
// workers service dispatched requests against.
//
// A backend sees one request at a time per worker and must be safe for
// concurrent use by QueueDepth workers. Reads fill req.Data, writes consume
// it, flush persists earlier writes and discard zeroes the range.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/concave-dev/anxiety/internal/iosched"
)

var (
	// ErrOutOfRange is returned for requests that extend past Size().
	ErrOutOfRange = errors.New("request out of device range")

	// ErrShortBuffer is returned when req.Data is smaller than req.Length
	// for a read or write.
	ErrShortBuffer = errors.New("request buffer shorter than length")

	// ErrUnsupportedOp is returned for operations a backend cannot service.
	ErrUnsupportedOp = errors.New("operation not supported")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("backend closed")
)

// Kinds accepted by anxietyd --backend.
const (
	KindMemory = "memory"
	KindFile   = "file"
)

// Backend services dispatched requests.
type Backend interface {
	Handle(ctx context.Context, req *iosched.Request) error
	Size() uint64
	Info() Info
	Close() error
}

// Info describes a backend for the stats endpoint.
type Info struct {
	Kind string `json:"kind"`
	Size uint64 `json:"size"`
	Path string `json:"path,omitempty"`

	// Backing filesystem usage, file backend only
	FSTotal       uint64  `json:"fs_total,omitempty"`
	FSFree        uint64  `json:"fs_free,omitempty"`
	FSUsedPercent float64 `json:"fs_used_percent,omitempty"`
	FSType        string  `json:"fs_type,omitempty"`
}

// checkRange validates req against a device of the given size.
func checkRange(req *iosched.Request, size uint64) error {
	if req.Op == iosched.OpFlush {
		return nil
	}
	end := req.End()
	if end < req.Offset || end > size {
		return fmt.Errorf("%w: %s offset=%d length=%d size=%d",
			ErrOutOfRange, req.Op, req.Offset, req.Length, size)
	}
	if (req.Op == iosched.OpRead || req.Op == iosched.OpWrite) && uint64(len(req.Data)) < req.Length {
		return fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(req.Data), req.Length)
	}
	return nil
}

// New builds a backend of the given kind. path is only used by the file
// backend.
func New(kind, path string, size uint64) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(size)
	case KindFile:
		return OpenFile(path, size)
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", kind)
	}
}
