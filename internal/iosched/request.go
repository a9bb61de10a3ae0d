package iosched

import (
	"container/list"
	"fmt"
	"time"
)

// Op identifies the kind of work a request asks the device to perform. The
// scheduler never looks at it; it is carried for the device layer.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
	OpFlush
	OpDiscard
)

// String returns the lowercase name used in logs and on the HTTP API.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpFlush:
		return "flush"
	case OpDiscard:
		return "discard"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// ParseOp converts an operation name back into an Op.
func ParseOp(name string) (Op, error) {
	switch name {
	case "read":
		return OpRead, nil
	case "write":
		return OpWrite, nil
	case "flush":
		return OpFlush, nil
	case "discard":
		return OpDiscard, nil
	default:
		return 0, fmt.Errorf("unknown operation: %s", name)
	}
}

// Request is an I/O request handed to the scheduler by the upstream
// submission path. Only Sync is consulted for classification; everything
// else belongs to the device layer that created the request.
//
// A request sits in at most one scheduler queue at a time. Once dispatched
// it is owned by the Submitter and never re-enters a queue.
type Request struct {
	ID        string    // Caller-assigned identifier used in logs
	Op        Op        // Operation for the backend
	Sync      bool      // Caller is waiting on completion
	Offset    uint64    // Byte offset on the device
	Length    uint64    // Byte length of the transfer
	Data      []byte    // Write payload or read destination
	Submitted time.Time // When the upstream path created the request

	// Private is reserved for the layer that owns the request (completion
	// tracking, merged children). The scheduler does not touch it.
	Private any

	elem  *list.Element
	owner *fifo
}

// End returns the first byte offset past the request.
func (r *Request) End() uint64 {
	return r.Offset + r.Length
}

// Queued reports whether the request currently sits in a scheduler queue.
func (r *Request) Queued() bool {
	return r.owner != nil
}

// Class returns "sync" or "async" for logging and metric labels.
func (r *Request) Class() string {
	if r.Sync {
		return ClassSync
	}
	return ClassAsync
}

// Class labels used by stats, metrics and logs.
const (
	ClassSync  = "sync"
	ClassAsync = "async"
)
