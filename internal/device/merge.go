package device

import (
	"github.com/tidwall/btree"

	"github.com/concave-dev/anxiety/internal/iosched"
)

// rqState is kept in Request.Private for every request the device queue
// hands to the scheduler. Segments are the submitted requests it services,
// in offset order; the first one is the request that created it.
type rqState struct {
	seq      uint64
	segments []*Completion
}

func stateOf(rq *iosched.Request) *rqState {
	return rq.Private.(*rqState)
}

// mergeEntry orders queued requests by (op, class, offset, seq). seq keeps
// requests that share an offset distinct.
type mergeEntry struct {
	op     iosched.Op
	sync   bool
	offset uint64
	seq    uint64
	rq     *iosched.Request
}

func lessEntry(a, b mergeEntry) bool {
	if a.op != b.op {
		return a.op < b.op
	}
	if a.sync != b.sync {
		return !a.sync
	}
	if a.offset != b.offset {
		return a.offset < b.offset
	}
	return a.seq < b.seq
}

// mergeIndex holds the requests that are still in a scheduler queue so
// Submit can find merge partners without scanning the queues. Callers hold
// the queue lock.
type mergeIndex struct {
	tree *btree.BTreeG[mergeEntry]
}

func newMergeIndex() *mergeIndex {
	return &mergeIndex{tree: btree.NewBTreeG(lessEntry)}
}

func entryFor(rq *iosched.Request) mergeEntry {
	return mergeEntry{op: rq.Op, sync: rq.Sync, offset: rq.Offset, seq: stateOf(rq).seq, rq: rq}
}

func (ix *mergeIndex) insert(rq *iosched.Request) {
	ix.tree.Set(entryFor(rq))
}

func (ix *mergeIndex) remove(rq *iosched.Request) {
	ix.tree.Delete(entryFor(rq))
}

func (ix *mergeIndex) len() int {
	return ix.tree.Len()
}

// precedingEnd returns the newest queued request of the same op and class
// that ends exactly at offset. Only requests shorter than maxLen can take
// part in a merge, so the walk stops once offsets fall that far below.
func (ix *mergeIndex) precedingEnd(op iosched.Op, sync bool, offset, maxLen uint64) *iosched.Request {
	var found *iosched.Request
	pivot := mergeEntry{op: op, sync: sync, offset: offset}
	ix.tree.Descend(pivot, func(e mergeEntry) bool {
		if e.op != op || e.sync != sync || e.offset+maxLen < offset {
			return false
		}
		if e.offset < offset && e.rq.End() == offset {
			if found == nil || e.seq > stateOf(found).seq {
				found = e.rq
			}
		}
		return true
	})
	return found
}

// startingAt returns the newest queued request of the same op and class
// that starts at offset.
func (ix *mergeIndex) startingAt(op iosched.Op, sync bool, offset uint64) *iosched.Request {
	var found *iosched.Request
	pivot := mergeEntry{op: op, sync: sync, offset: offset}
	ix.tree.Ascend(pivot, func(e mergeEntry) bool {
		if e.op != op || e.sync != sync || e.offset != offset {
			return false
		}
		found = e.rq
		return true
	})
	return found
}

// conflicts reports whether a queued request of class sync, other than
// skip, has a seq strictly between after and before (before == 0 means no
// upper bound) and overlaps [start, end) with at least one side modifying
// data. Moving a range of op across such a request would change what the
// device ends up holding or what a read returns.
func (ix *mergeIndex) conflicts(op iosched.Op, sync bool, start, end, after, before uint64, skip ...*iosched.Request) bool {
	hit := false
	for _, other := range []iosched.Op{iosched.OpRead, iosched.OpWrite, iosched.OpDiscard} {
		if op == iosched.OpRead && other == iosched.OpRead {
			continue
		}
		pivot := mergeEntry{op: other, sync: sync}
		ix.tree.Ascend(pivot, func(e mergeEntry) bool {
			if e.op != other || e.sync != sync || e.offset >= end {
				return false
			}
			if e.rq.End() <= start || e.seq <= after || (before != 0 && e.seq >= before) {
				return true
			}
			for _, s := range skip {
				if e.rq == s {
					return true
				}
			}
			hit = true
			return false
		})
		if hit {
			return true
		}
	}
	return false
}

// mergeable reports whether op can be serviced as one contiguous range.
func mergeable(op iosched.Op) bool {
	return op == iosched.OpRead || op == iosched.OpWrite || op == iosched.OpDiscard
}
