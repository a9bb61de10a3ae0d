package iosched

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures dispatched requests in order.
type recorder struct {
	got []*Request
}

func (r *recorder) Submit(req *Request) {
	r.got = append(r.got, req)
}

func (r *recorder) ids() []string {
	out := make([]string, 0, len(r.got))
	for _, req := range r.got {
		out = append(out, req.ID)
	}
	return out
}

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(rec, opts...)
	require.NoError(t, err)
	return s, rec
}

func enqueueN(s *Scheduler, prefix string, sync bool, n int) []*Request {
	reqs := make([]*Request, 0, n)
	for i := 1; i <= n; i++ {
		req := &Request{ID: fmt.Sprintf("%s%d", prefix, i), Sync: sync}
		s.Enqueue(req)
		reqs = append(reqs, req)
	}
	return reqs
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, _ := newTestScheduler(t)
		assert.Equal(t, DefaultSyncRatio, s.SyncRatio())
		assert.Equal(t, DefaultBatchCount, s.BatchCount())
		assert.True(t, s.Empty())
	})

	t.Run("nil submitter", func(t *testing.T) {
		s, err := New(nil)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrNilSubmitter)
	})

	t.Run("options", func(t *testing.T) {
		s, _ := newTestScheduler(t, WithSyncRatio(2), WithBatchCount(0))
		assert.Equal(t, uint8(2), s.SyncRatio())
		assert.Equal(t, uint8(1), s.BatchCount())
	})
}

func TestEnqueue_RoutesByClass(t *testing.T) {
	s, _ := newTestScheduler(t)
	enqueueN(s, "s", true, 3)
	enqueueN(s, "a", false, 2)

	assert.Equal(t, 3, s.SyncLen())
	assert.Equal(t, 2, s.AsyncLen())
	assert.Equal(t, 5, s.Len())
	assert.False(t, s.Empty())
}

func TestEnqueue_AlreadyQueuedIsIgnored(t *testing.T) {
	s, rec := newTestScheduler(t)
	req := &Request{ID: "a1"}
	s.Enqueue(req)
	s.Enqueue(req)
	req.Sync = true
	s.Enqueue(req)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.AsyncLen())

	assert.Equal(t, 1, s.Dispatch(true))
	assert.Equal(t, []string{"a1"}, rec.ids())
	assert.True(t, s.Empty())
}

// 10 sync + 3 async with defaults: 8s+1a, 2s+1a, 0s+1a, nothing.
func TestDispatch_MixedBacklog(t *testing.T) {
	s, rec := newTestScheduler(t)
	enqueueN(s, "s", true, 10)
	enqueueN(s, "a", false, 3)

	n := s.Dispatch(false)

	assert.Equal(t, 13, n)
	assert.Equal(t, []string{
		"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "a1",
		"s9", "s10", "a2",
		"a3",
	}, rec.ids())
	assert.True(t, s.Empty())
}

func TestDispatch_SyncOnlyBacklogIsBounded(t *testing.T) {
	s, rec := newTestScheduler(t)
	enqueueN(s, "s", true, 50)

	n := s.Dispatch(false)

	assert.Equal(t, 32, n)
	assert.Equal(t, 18, s.SyncLen())
	assert.Equal(t, "s1", rec.got[0].ID)
	assert.Equal(t, "s32", rec.got[31].ID)
	assert.Equal(t, "s33", s.Queued(true)[0].ID)
}

func TestDispatch_ZeroSyncRatioOnlyServesAsync(t *testing.T) {
	s, rec := newTestScheduler(t, WithSyncRatio(0))
	enqueueN(s, "s", true, 5)
	enqueueN(s, "a", false, 2)

	n := s.Dispatch(false)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a1", "a2"}, rec.ids())
	assert.Equal(t, 5, s.SyncLen())
	assert.Equal(t, 0, s.AsyncLen())

	// Only a forced dispatch moves sync work at ratio 0.
	assert.Equal(t, 5, s.Dispatch(true))
	assert.True(t, s.Empty())
}

func TestDispatch_RoundAccounting(t *testing.T) {
	tests := []struct {
		name       string
		syncRatio  uint8
		batchCount uint8
		sync       int
		async      int
		want       int
	}{
		{"both queues deep", 8, 4, 100, 100, 36},
		{"single round", 3, 1, 10, 10, 4},
		{"async only", 8, 4, 0, 10, 4},
		{"short sync queue", 8, 4, 5, 10, 9},
		{"ratio one", 1, 4, 10, 10, 8},
		{"max tunables", 255, 255, 1000, 1000, 1000 + 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestScheduler(t, WithSyncRatio(tt.syncRatio), WithBatchCount(tt.batchCount))
			enqueueN(s, "s", true, tt.sync)
			enqueueN(s, "a", false, tt.async)

			limit := int(tt.batchCount) * (int(tt.syncRatio) + 1)
			n := s.Dispatch(false)

			assert.Equal(t, tt.want, n)
			assert.LessOrEqual(t, n, limit)
			assert.Len(t, rec.got, n)
			assert.Equal(t, tt.sync+tt.async-n, s.Len())
		})
	}
}

func TestDispatch_PreservesFIFOPerClass(t *testing.T) {
	s, rec := newTestScheduler(t, WithSyncRatio(3), WithBatchCount(2))
	enqueueN(s, "s", true, 20)
	enqueueN(s, "a", false, 20)

	for !s.Empty() {
		s.Dispatch(false)
	}

	var syncIDs, asyncIDs []string
	for _, req := range rec.got {
		if req.Sync {
			syncIDs = append(syncIDs, req.ID)
		} else {
			asyncIDs = append(asyncIDs, req.ID)
		}
	}
	for i := range 20 {
		assert.Equal(t, fmt.Sprintf("s%d", i+1), syncIDs[i])
		assert.Equal(t, fmt.Sprintf("a%d", i+1), asyncIDs[i])
	}
}

func TestDispatch_ForcedDrainsSyncThenAsync(t *testing.T) {
	s, rec := newTestScheduler(t)
	enqueueN(s, "a", false, 3)
	enqueueN(s, "s", true, 40)

	n := s.Dispatch(true)

	require.Equal(t, 43, n)
	assert.True(t, s.Empty())
	for i := 0; i < 40; i++ {
		assert.True(t, rec.got[i].Sync, "request %d should be sync", i)
	}
	assert.Equal(t, []string{"a1", "a2", "a3"}, rec.ids()[40:])
}

func TestDispatch_EmptyIsIdempotent(t *testing.T) {
	s, rec := newTestScheduler(t)

	for range 3 {
		assert.Equal(t, 0, s.Dispatch(false))
		assert.Equal(t, 0, s.Dispatch(true))
	}
	assert.Empty(t, rec.got)
	assert.Equal(t, uint64(6), s.Stats().DispatchCalls)
}

func TestDispatchedRequestsLeaveTheQueue(t *testing.T) {
	s, rec := newTestScheduler(t)
	reqs := enqueueN(s, "s", true, 2)
	for _, req := range reqs {
		assert.True(t, req.Queued())
	}

	s.Dispatch(false)

	require.Len(t, rec.got, 2)
	for _, req := range reqs {
		assert.False(t, req.Queued())
	}

	// A merge notification for a dispatched request must not disturb anything.
	s.NotifyMerged(reqs[0])
	assert.Equal(t, uint64(0), s.Stats().Merged)
}

func TestNotifyMerged(t *testing.T) {
	s, rec := newTestScheduler(t)
	syncReqs := enqueueN(s, "s", true, 3)
	asyncReqs := enqueueN(s, "a", false, 2)

	s.NotifyMerged(syncReqs[1])
	s.NotifyMerged(asyncReqs[0])
	s.NotifyMerged(asyncReqs[0])
	s.NotifyMerged(&Request{ID: "stranger"})
	s.NotifyMerged(nil)

	assert.Equal(t, 2, s.SyncLen())
	assert.Equal(t, 1, s.AsyncLen())
	assert.Equal(t, uint64(2), s.Stats().Merged)

	s.Dispatch(true)
	assert.Equal(t, []string{"s1", "s3", "a2"}, rec.ids())
}

func TestTeardown(t *testing.T) {
	s, rec := newTestScheduler(t)
	reqs := enqueueN(s, "s", true, 4)
	enqueueN(s, "a", false, 2)

	assert.Equal(t, 6, s.Teardown())
	assert.True(t, s.Empty())
	assert.Empty(t, rec.got)
	assert.False(t, reqs[0].Queued())
	assert.Equal(t, uint64(6), s.Stats().Dropped)

	assert.Equal(t, 0, s.Teardown())
}

func TestStats(t *testing.T) {
	s, _ := newTestScheduler(t)
	enqueueN(s, "s", true, 10)
	enqueueN(s, "a", false, 3)

	s.Dispatch(false)
	enqueueN(s, "x", true, 2)
	s.Dispatch(true)

	st := s.Stats()
	assert.Equal(t, uint64(12), st.SyncDispatched)
	assert.Equal(t, uint64(3), st.AsyncDispatched)
	assert.Equal(t, uint64(2), st.DispatchCalls)
	assert.Equal(t, uint64(1), st.ForcedDispatches)
	assert.Equal(t, 0, st.SyncQueued)
	assert.Equal(t, DefaultSyncRatio, st.SyncRatio)
	assert.Equal(t, DefaultBatchCount, st.BatchCount)
}

func TestSubmitterFunc(t *testing.T) {
	var seen []string
	s, err := New(SubmitterFunc(func(req *Request) { seen = append(seen, req.ID) }))
	require.NoError(t, err)

	s.Enqueue(&Request{ID: "one", Sync: true})
	s.Dispatch(false)

	assert.Equal(t, []string{"one"}, seen)
}
