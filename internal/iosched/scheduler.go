// Package iosched implements the "anxiety" request dispatch policy: two FIFO
// queues, one for synchronous and one for asynchronous I/O, drained in bounded
// batches that keep async work from starving behind a sync backlog.
//
// DISPATCH POLICY:
// A non-forced dispatch runs up to BatchCount rounds. Each round hands out at
// most SyncRatio synchronous requests and then exactly one asynchronous
// request if any is waiting. A forced dispatch ignores the rounds and empties
// the sync queue followed by the async queue.
//
// OWNERSHIP:
// The scheduler carries no lock. Whoever owns an instance (the device queue in
// this repository) must serialize Enqueue, NotifyMerged, Dispatch, Teardown
// and tunable access, the same way a block-layer elevator runs under its
// request queue lock. Dispatched requests are handed to a Submitter and never
// come back.
package iosched

import (
	"errors"

	"github.com/concave-dev/anxiety/internal/logging"
)

// ErrNilSubmitter is returned by New when no dispatch target is supplied.
var ErrNilSubmitter = errors.New("iosched: submitter cannot be nil")

// Submitter receives dispatched requests. It is the device submission path:
// ownership of the request moves to it on every call.
type Submitter interface {
	Submit(req *Request)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(req *Request)

// Submit calls f(req).
func (f SubmitterFunc) Submit(req *Request) {
	f(req)
}

// Stats is a point-in-time copy of the scheduler's counters.
type Stats struct {
	SyncQueued       int    `json:"sync_queued"`
	AsyncQueued      int    `json:"async_queued"`
	SyncDispatched   uint64 `json:"sync_dispatched"`
	AsyncDispatched  uint64 `json:"async_dispatched"`
	Merged           uint64 `json:"merged"`
	DispatchCalls    uint64 `json:"dispatch_calls"`
	ForcedDispatches uint64 `json:"forced_dispatches"`
	Dropped          uint64 `json:"dropped"`
	SyncRatio        uint8  `json:"sync_ratio"`
	BatchCount       uint8  `json:"batch_count"`
}

// Option customizes a Scheduler at construction time.
type Option func(*Scheduler)

// WithSyncRatio overrides the default sync_ratio.
func WithSyncRatio(v uint8) Option {
	return func(s *Scheduler) { s.SetSyncRatio(v) }
}

// WithBatchCount overrides the default batch_count. Zero is raised to one.
func WithBatchCount(v uint8) Option {
	return func(s *Scheduler) { s.SetBatchCount(v) }
}

// Scheduler holds the two dispatch queues and the tunables for one device.
type Scheduler struct {
	syncQueue  *fifo
	asyncQueue *fifo

	syncRatio  uint8
	batchCount uint8

	submitter Submitter
	stats     Stats
}

// New returns a scheduler with empty queues and default tunables
// (sync_ratio=8, batch_count=4). Options are applied after the defaults.
func New(submitter Submitter, opts ...Option) (*Scheduler, error) {
	if submitter == nil {
		return nil, ErrNilSubmitter
	}

	s := &Scheduler{
		syncQueue:  newFIFO(),
		asyncQueue: newFIFO(),
		syncRatio:  DefaultSyncRatio,
		batchCount: DefaultBatchCount,
		submitter:  submitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enqueue appends req to the tail of the sync or async queue. A request that
// is already queued keeps its place.
func (s *Scheduler) Enqueue(req *Request) {
	if req.Queued() {
		return
	}
	if req.Sync {
		s.syncQueue.push(req)
		return
	}
	s.asyncQueue.push(req)
}

// NotifyMerged removes req from whichever queue holds it because another
// request absorbed it. Requests that are not queued are ignored.
func (s *Scheduler) NotifyMerged(req *Request) {
	if req == nil {
		return
	}
	if s.syncQueue.remove(req) || s.asyncQueue.remove(req) {
		s.stats.Merged++
	}
}

// Dispatch hands queued requests to the submitter and returns how many were
// dispatched. With force set both queues are drained completely, sync first;
// otherwise a bounded batch is dispatched.
func (s *Scheduler) Dispatch(force bool) int {
	s.stats.DispatchCalls++
	if force {
		s.stats.ForcedDispatches++
		return s.drain()
	}
	return s.dispatchBatch()
}

// dispatchBatch runs up to batchCount rounds of syncRatio sync requests
// followed by one async request.
//
// The early exit checks the running total for the whole call, not the
// current round, so it only fires when both queues were empty on entry.
// Later rounds that find nothing to do are no-ops.
func (s *Scheduler) dispatchBatch() int {
	dispatched := 0

	for round := 0; round < int(s.batchCount); round++ {
		for i := 0; i < int(s.syncRatio); i++ {
			req := s.syncQueue.pop()
			if req == nil {
				break
			}
			s.dispatch(req)
			dispatched++
		}

		// Async anti-starvation slot
		if req := s.asyncQueue.pop(); req != nil {
			s.dispatch(req)
			dispatched++
		}

		if dispatched == 0 {
			break
		}
	}

	return dispatched
}

// drain empties the sync queue and then the async queue, in FIFO order.
func (s *Scheduler) drain() int {
	dispatched := 0
	for req := s.syncQueue.pop(); req != nil; req = s.syncQueue.pop() {
		s.dispatch(req)
		dispatched++
	}
	for req := s.asyncQueue.pop(); req != nil; req = s.asyncQueue.pop() {
		s.dispatch(req)
		dispatched++
	}
	if dispatched > 0 {
		logging.Debug("iosched: forced drain dispatched %d requests", dispatched)
	}
	return dispatched
}

func (s *Scheduler) dispatch(req *Request) {
	if req.Sync {
		s.stats.SyncDispatched++
	} else {
		s.stats.AsyncDispatched++
	}
	s.submitter.Submit(req)
}

// Teardown drops every queued request without dispatching it and returns
// the number dropped. Callers that need the requests serviced must call
// Dispatch(true) first.
func (s *Scheduler) Teardown() int {
	dropped := s.syncQueue.reset() + s.asyncQueue.reset()
	s.stats.Dropped += uint64(dropped)
	if dropped > 0 {
		logging.Warn("iosched: teardown dropped %d queued requests", dropped)
	}
	return dropped
}

// SyncLen returns the number of queued synchronous requests.
func (s *Scheduler) SyncLen() int { return s.syncQueue.len() }

// AsyncLen returns the number of queued asynchronous requests.
func (s *Scheduler) AsyncLen() int { return s.asyncQueue.len() }

// Len returns the total number of queued requests.
func (s *Scheduler) Len() int { return s.syncQueue.len() + s.asyncQueue.len() }

// Empty reports whether both queues are empty.
func (s *Scheduler) Empty() bool { return s.Len() == 0 }

// Queued returns the queued requests of one class, head first.
func (s *Scheduler) Queued(sync bool) []*Request {
	if sync {
		return s.syncQueue.snapshot()
	}
	return s.asyncQueue.snapshot()
}

// Stats returns a copy of the counters with current queue depths filled in.
func (s *Scheduler) Stats() Stats {
	st := s.stats
	st.SyncQueued = s.syncQueue.len()
	st.AsyncQueued = s.asyncQueue.len()
	st.SyncRatio = s.syncRatio
	st.BatchCount = s.batchCount
	return st
}
