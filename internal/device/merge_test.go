package device

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/concave-dev/anxiety/internal/iosched"
)

func indexed(seq uint64, op iosched.Op, sync bool, offset, length uint64) *iosched.Request {
	return &iosched.Request{
		Op: op, Sync: sync, Offset: offset, Length: length,
		Private: &rqState{seq: seq},
	}
}

func TestMergeIndex_Lookups(t *testing.T) {
	ix := newMergeIndex()

	w1 := indexed(1, iosched.OpWrite, false, 0, 512)
	w2 := indexed(2, iosched.OpWrite, false, 1024, 512)
	w3 := indexed(3, iosched.OpWrite, false, 1024, 256)
	r1 := indexed(4, iosched.OpRead, false, 512, 512)
	s1 := indexed(5, iosched.OpWrite, true, 0, 512)
	for _, rq := range []*iosched.Request{w1, w2, w3, r1, s1} {
		ix.insert(rq)
	}
	assert.Equal(t, 5, ix.len())

	assert.Same(t, w1, ix.precedingEnd(iosched.OpWrite, false, 512, 1<<20))
	assert.Same(t, s1, ix.precedingEnd(iosched.OpWrite, true, 512, 1<<20))
	assert.Nil(t, ix.precedingEnd(iosched.OpWrite, false, 600, 1<<20))
	assert.Nil(t, ix.precedingEnd(iosched.OpRead, false, 512, 1<<20), "a read never merges with a write")
	assert.Nil(t, ix.precedingEnd(iosched.OpWrite, false, 0, 1<<20))

	assert.Same(t, w3, ix.startingAt(iosched.OpWrite, false, 1024), "newest request at an offset wins")
	assert.Nil(t, ix.startingAt(iosched.OpWrite, true, 1024))
	assert.Nil(t, ix.startingAt(iosched.OpWrite, false, 2048))

	ix.remove(w3)
	assert.Same(t, w2, ix.startingAt(iosched.OpWrite, false, 1024))
	assert.Equal(t, 4, ix.len())
}

func TestMergeIndex_PrecedingEndSharedOffset(t *testing.T) {
	ix := newMergeIndex()

	short := indexed(1, iosched.OpWrite, false, 1024, 512)
	long := indexed(2, iosched.OpWrite, false, 1024, 1024)
	far := indexed(3, iosched.OpWrite, false, 0, 2048)
	for _, rq := range []*iosched.Request{short, long, far} {
		ix.insert(rq)
	}

	assert.Same(t, short, ix.precedingEnd(iosched.OpWrite, false, 1536, 1<<20),
		"a lower-seq request at the same offset is still found")
	assert.Same(t, far, ix.precedingEnd(iosched.OpWrite, false, 2048, 1<<20),
		"the newest request ending at the offset wins")
	assert.Same(t, long, ix.precedingEnd(iosched.OpWrite, false, 2048, 1024),
		"requests too long to merge are not considered")
}

func TestMergeIndex_Conflicts(t *testing.T) {
	ix := newMergeIndex()

	w1 := indexed(1, iosched.OpWrite, false, 0, 4096)
	w2 := indexed(2, iosched.OpWrite, false, 2048, 4096)
	r3 := indexed(3, iosched.OpRead, false, 8192, 512)
	s4 := indexed(4, iosched.OpWrite, true, 16384, 512)
	for _, rq := range []*iosched.Request{w1, w2, r3, s4} {
		ix.insert(rq)
	}

	tests := []struct {
		name       string
		op         iosched.Op
		start, end uint64
		after      uint64
		before     uint64
		want       bool
	}{
		{"write overlapping newer write", iosched.OpWrite, 4096, 8192, 1, 0, true},
		{"no newer request in range", iosched.OpWrite, 4096, 8192, 2, 0, false},
		{"seq window excludes w2", iosched.OpWrite, 4096, 8192, 1, 2, false},
		{"write overlapping queued read", iosched.OpWrite, 8192, 8704, 0, 0, true},
		{"reads never conflict with reads", iosched.OpRead, 8192, 8704, 0, 0, false},
		{"adjacent ranges do not overlap", iosched.OpWrite, 6144, 8192, 0, 0, false},
		{"other class ignored", iosched.OpWrite, 16384, 16896, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.conflicts(tt.op, false, tt.start, tt.end, tt.after, tt.before))
		})
	}

	assert.False(t, ix.conflicts(iosched.OpWrite, false, 4096, 8192, 1, 0, w2), "skipped requests never conflict")
}

func TestMergeable(t *testing.T) {
	assert.True(t, mergeable(iosched.OpRead))
	assert.True(t, mergeable(iosched.OpWrite))
	assert.True(t, mergeable(iosched.OpDiscard))
	assert.False(t, mergeable(iosched.OpFlush))
}
