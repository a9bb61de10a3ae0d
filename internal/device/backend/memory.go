package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/concave-dev/anxiety/internal/iosched"
)

// Memory is a RAM-backed device. Contents are lost on Close.
type Memory struct {
	mu     sync.RWMutex
	data   []byte
	closed bool
}

// NewMemory allocates a zeroed device of size bytes.
func NewMemory(size uint64) (*Memory, error) {
	if size == 0 {
		return nil, fmt.Errorf("memory backend size must be positive")
	}
	return &Memory{data: make([]byte, size)}, nil
}

// Handle services one request.
func (m *Memory) Handle(ctx context.Context, req *iosched.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if req.Op == iosched.OpRead {
		m.mu.RLock()
		defer m.mu.RUnlock()
	} else {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	if m.closed {
		return ErrClosed
	}
	if err := checkRange(req, uint64(len(m.data))); err != nil {
		return err
	}

	switch req.Op {
	case iosched.OpRead:
		copy(req.Data[:req.Length], m.data[req.Offset:req.End()])
	case iosched.OpWrite:
		copy(m.data[req.Offset:req.End()], req.Data[:req.Length])
	case iosched.OpFlush:
	case iosched.OpDiscard:
		clear(m.data[req.Offset:req.End()])
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOp, req.Op)
	}
	return nil
}

// Size returns the device capacity in bytes.
func (m *Memory) Size() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.data))
}

// Info reports the backend kind and size.
func (m *Memory) Info() Info {
	return Info{Kind: KindMemory, Size: m.Size()}
}

// Close releases the buffer. Later requests fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}
