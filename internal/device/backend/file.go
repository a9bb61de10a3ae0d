package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shirou/gopsutil/disk"

	"github.com/concave-dev/anxiety/internal/iosched"
	"github.com/concave-dev/anxiety/internal/logging"
)

// discardChunk bounds the zero buffer used to service discards.
const discardChunk = 1 << 20

// File is a device backed by a regular file. The file is grown to size on
// open and never shrunk.
type File struct {
	path string
	size uint64

	mu     sync.RWMutex // write-locked only by Close
	file   *os.File
	closed bool
}

// OpenFile opens or creates path as a device of size bytes.
func OpenFile(path string, size uint64) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file backend requires a path")
	}
	if size == 0 {
		return nil, fmt.Errorf("file backend size must be positive")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open backing file: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat backing file: %w", err)
	}
	if uint64(st.Size()) < size {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to grow backing file to %d bytes: %w", size, err)
		}
	}

	logging.Debug("File backend: opened %s (%d bytes)", path, size)
	return &File{path: path, size: size, file: f}, nil
}

// Handle services one request with positioned reads and writes, so
// concurrent workers never share a file offset.
func (b *File) Handle(ctx context.Context, req *iosched.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	if err := checkRange(req, b.size); err != nil {
		return err
	}

	switch req.Op {
	case iosched.OpRead:
		_, err := b.file.ReadAt(req.Data[:req.Length], int64(req.Offset))
		return err
	case iosched.OpWrite:
		_, err := b.file.WriteAt(req.Data[:req.Length], int64(req.Offset))
		return err
	case iosched.OpFlush:
		return b.file.Sync()
	case iosched.OpDiscard:
		return b.zeroRange(req.Offset, req.Length)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOp, req.Op)
	}
}

func (b *File) zeroRange(offset, length uint64) error {
	zeros := make([]byte, min(length, discardChunk))
	for length > 0 {
		n := min(length, uint64(len(zeros)))
		if _, err := b.file.WriteAt(zeros[:n], int64(offset)); err != nil {
			return err
		}
		offset += n
		length -= n
	}
	return nil
}

// Size returns the device capacity in bytes.
func (b *File) Size() uint64 {
	return b.size
}

// Info reports the backing path and the usage of the filesystem it lives
// on. Usage fields stay zero when the filesystem cannot be queried.
func (b *File) Info() Info {
	info := Info{Kind: KindFile, Size: b.size, Path: b.path}

	usage, err := disk.Usage(filepath.Dir(b.path))
	if err != nil {
		logging.Debug("File backend: filesystem usage unavailable for %s: %v", b.path, err)
		return info
	}
	info.FSTotal = usage.Total
	info.FSFree = usage.Free
	info.FSUsedPercent = usage.UsedPercent
	info.FSType = usage.Fstype
	return info
}

// Close syncs and closes the backing file.
func (b *File) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	syncErr := b.file.Sync()
	closeErr := b.file.Close()
	if syncErr != nil {
		return fmt.Errorf("failed to sync backing file: %w", syncErr)
	}
	return closeErr
}
