// Package device owns one iosched.Scheduler and drives it the way a block
// device's request queue drives its elevator.
//
// REQUEST FLOW:
//  1. Submit validates a request, applies admission back-pressure and tries
//     to back-merge it into a request that is still queued
//  2. Unmerged requests are enqueued on the scheduler
//  3. The dispatch loop asks the scheduler for a batch whenever it is woken
//     and the backend has free depth
//  4. Dispatched requests go to QueueDepth workers that call the backend and
//     complete every merged segment
//
// LOCKING:
// q.mu is the lock the scheduler expects its owner to hold. Every scheduler
// call, the merge index and the pending counters are guarded by it. Backend
// calls and completion callbacks run outside it.
package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/concave-dev/anxiety/internal/device/backend"
	"github.com/concave-dev/anxiety/internal/iosched"
	"github.com/concave-dev/anxiety/internal/logging"
	"github.com/concave-dev/anxiety/internal/utils"
)

// Stats is a snapshot of the device queue for the API and anxietyctl.
type Stats struct {
	Device     string        `json:"device"`
	Scheduler  iosched.Stats `json:"scheduler"`
	Pending    int           `json:"pending"`
	InFlight   int           `json:"in_flight"`
	QueueDepth int           `json:"queue_depth"`
	MaxPending int           `json:"max_pending"`
	Submitted  uint64        `json:"submitted"`
	Completed  uint64        `json:"completed"`
	Failed     uint64        `json:"failed"`
	Rejected   uint64        `json:"rejected"`
	Merged     uint64        `json:"merged_segments"`
	Backend    backend.Info  `json:"backend"`
}

// Queue is a device request queue in front of a backend.
type Queue struct {
	cfg     *Config
	backend backend.Backend
	metrics *queueMetrics

	mu       sync.Mutex
	sched    *iosched.Scheduler
	index    *mergeIndex
	seq      uint64
	pending  int           // submitted, not yet completed
	inflight int           // dispatched scheduler requests not yet completed
	idle     chan struct{} // closed when pending drops to zero
	counters Stats

	work    chan *iosched.Request
	wake    chan struct{}
	stopCh  chan struct{}
	loopEnd chan struct{}
	workers sync.WaitGroup
	stopped abool.AtomicBool

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a device queue over be. The caller keeps ownership of be and
// closes it after Close returns.
func New(cfg *Config, be backend.Backend) (*Queue, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device config: %w", err)
	}
	if be == nil {
		return nil, fmt.Errorf("device queue requires a backend")
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		cfg:     cfg,
		backend: be,
		index:   newMergeIndex(),
		work:    make(chan *iosched.Request, cfg.MaxPending),
		wake:    make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		loopEnd: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}

	sched, err := iosched.New(iosched.SubmitterFunc(q.submit),
		iosched.WithSyncRatio(cfg.SyncRatio),
		iosched.WithBatchCount(cfg.BatchCount))
	if err != nil {
		cancel()
		return nil, err
	}
	q.sched = sched
	q.metrics = newQueueMetrics(q)

	for i := 0; i < cfg.QueueDepth; i++ {
		q.workers.Add(1)
		go q.worker()
	}
	go q.run()

	logging.Info("Device %s: queue started (depth=%d, max pending=%d, sync_ratio=%d, batch_count=%d)",
		cfg.Name, cfg.QueueDepth, cfg.MaxPending, sched.SyncRatio(), sched.BatchCount())
	return q, nil
}

// Name returns the device name.
func (q *Queue) Name() string {
	return q.cfg.Name
}

// Submit queues req and returns its completion handle. req must not be
// reused until the completion is done. Reads with nil Data get a buffer of
// req.Length bytes.
func (q *Queue) Submit(ctx context.Context, req *iosched.Request) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.prepare(req); err != nil {
		return nil, err
	}
	c := newCompletion(req)

	q.mu.Lock()
	if q.stopped.IsSet() {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}
	if q.pending >= q.cfg.MaxPending {
		q.counters.Rejected++
		current := q.pending
		q.mu.Unlock()
		q.metrics.rejected.Inc()
		return nil, &QueueFullError{Device: q.cfg.Name, Current: current, Capacity: q.cfg.MaxPending}
	}
	q.pending++
	q.counters.Submitted++
	if !q.backMerge(c) {
		q.enqueue(c)
	}
	q.mu.Unlock()

	q.metrics.submitted.Inc()
	q.kick()
	return c, nil
}

// Do submits req and waits for it.
func (q *Queue) Do(ctx context.Context, req *iosched.Request) error {
	c, err := q.Submit(ctx, req)
	if err != nil {
		return err
	}
	return c.Wait(ctx)
}

func (q *Queue) prepare(req *iosched.Request) error {
	if req == nil {
		return invalidf("nil request")
	}
	if req.Queued() {
		return invalidf("request %s is already queued", req.ID)
	}

	switch req.Op {
	case iosched.OpRead:
		if req.Data == nil {
			req.Data = make([]byte, req.Length)
		}
		fallthrough
	case iosched.OpWrite:
		if req.Length == 0 {
			return invalidf("%s length must be positive", req.Op)
		}
		if uint64(len(req.Data)) < req.Length {
			return invalidf("%s buffer has %d bytes, length is %d", req.Op, len(req.Data), req.Length)
		}
	case iosched.OpDiscard:
		if req.Length == 0 {
			return invalidf("discard length must be positive")
		}
	case iosched.OpFlush:
	default:
		return invalidf("unknown operation %s", req.Op)
	}

	if req.Op != iosched.OpFlush {
		if end := req.End(); end < req.Offset || end > q.backend.Size() {
			return invalidf("range %d+%d exceeds device size %d", req.Offset, req.Length, q.backend.Size())
		}
	}

	if req.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		req.ID = id
	}
	req.Submitted = time.Now()
	return nil
}

// enqueue wraps c in a scheduler request and queues it. Caller holds q.mu.
func (q *Queue) enqueue(c *Completion) {
	q.seq++
	req := c.req
	rq := &iosched.Request{
		ID:        req.ID,
		Op:        req.Op,
		Sync:      req.Sync,
		Offset:    req.Offset,
		Length:    req.Length,
		Submitted: req.Submitted,
		Private:   &rqState{seq: q.seq, segments: []*Completion{c}},
	}
	q.sched.Enqueue(rq)
	if mergeable(rq.Op) {
		q.index.insert(rq)
	}
}

// backMerge appends c to a queued request that ends where c starts. When
// the grown request then touches the start of another queued request, that
// one is absorbed too and the scheduler is told to forget it. Caller holds
// q.mu.
func (q *Queue) backMerge(c *Completion) bool {
	req := c.req
	if !mergeable(req.Op) {
		return false
	}

	rq := q.index.precedingEnd(req.Op, req.Sync, req.Offset, q.cfg.MaxMergeBytes)
	if rq == nil || rq.Length+req.Length > q.cfg.MaxMergeBytes {
		return false
	}

	// Joining rq dispatches req ahead of everything queued after rq
	st := stateOf(rq)
	if q.index.conflicts(req.Op, req.Sync, req.Offset, req.End(), st.seq, 0, rq) {
		return false
	}

	st.segments = append(st.segments, c)
	rq.Length += req.Length
	c.merged = true
	q.counters.Merged++
	q.metrics.merged.Inc()
	logging.Debug("Device %s: back-merged %s into %s (%d bytes)",
		q.cfg.Name, logging.FormatRequestID(req.ID), logging.FormatRequestID(rq.ID), rq.Length)

	next := q.index.startingAt(rq.Op, rq.Sync, rq.End())
	if next == nil || next == rq || rq.Length+next.Length > q.cfg.MaxMergeBytes {
		return true
	}

	// Absorbing next moves it to rq's place in the queue
	nextState := stateOf(next)
	lo, hi := nextState.seq, st.seq
	if lo > hi {
		lo, hi = hi, lo
	}
	if q.index.conflicts(next.Op, next.Sync, next.Offset, next.End(), lo, hi, rq, next) {
		return true
	}

	q.index.remove(next)
	q.sched.NotifyMerged(next)
	for _, seg := range nextState.segments {
		seg.merged = true
	}
	st.segments = append(st.segments, nextState.segments...)
	rq.Length += next.Length
	q.counters.Merged += uint64(len(nextState.segments))
	q.metrics.merged.Add(len(nextState.segments))
	logging.Debug("Device %s: absorbed queued %s into %s (%d bytes)",
		q.cfg.Name, logging.FormatRequestID(next.ID), logging.FormatRequestID(rq.ID), rq.Length)
	return true
}

// submit is the scheduler's dispatch target. It runs under q.mu from
// inside Dispatch.
func (q *Queue) submit(rq *iosched.Request) {
	if mergeable(rq.Op) {
		q.index.remove(rq)
	}
	q.inflight++

	segs := stateOf(rq).segments
	switch {
	case len(segs) == 1:
		rq.Data = segs[0].req.Data
	case rq.Op == iosched.OpWrite:
		rq.Data = make([]byte, 0, rq.Length)
		for _, seg := range segs {
			rq.Data = append(rq.Data, seg.req.Data[:seg.req.Length]...)
		}
	case rq.Op == iosched.OpRead:
		rq.Data = make([]byte, rq.Length)
	}

	q.metrics.dispatched(rq)
	q.work <- rq
}

// kick wakes the dispatch loop without blocking.
func (q *Queue) kick() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	defer close(q.loopEnd)

	ticker := time.NewTicker(q.cfg.DispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stopCh:
			return
		case <-q.wake:
			q.dispatch()
		case <-ticker.C:
			q.dispatch()
		}
	}
}

// dispatch runs batches while the backend has free depth.
func (q *Queue) dispatch() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	total := 0
	for q.inflight < q.cfg.QueueDepth && !q.sched.Empty() {
		n := q.sched.Dispatch(false)
		if n == 0 {
			// Only sync work left with sync_ratio=0
			break
		}
		total += n
	}
	return total
}

func (q *Queue) worker() {
	defer q.workers.Done()

	for rq := range q.work {
		start := time.Now()
		err := q.backend.Handle(q.ctx, rq)
		q.metrics.latency.UpdateDuration(start)
		q.complete(rq, err)
	}
}

// complete splits a serviced request back into its segments.
func (q *Queue) complete(rq *iosched.Request, err error) {
	segs := stateOf(rq).segments

	if err == nil && rq.Op == iosched.OpRead && len(segs) > 1 {
		off := uint64(0)
		for _, seg := range segs {
			copy(seg.req.Data[:seg.req.Length], rq.Data[off:off+seg.req.Length])
			off += seg.req.Length
		}
	}
	if err != nil {
		logging.Error("Device %s: %s %s failed: %v", q.cfg.Name, rq.Op, logging.FormatRequestID(rq.ID), err)
		q.metrics.failed.Add(len(segs))
	}

	q.mu.Lock()
	q.inflight--
	q.pending -= len(segs)
	q.counters.Completed += uint64(len(segs))
	if err != nil {
		q.counters.Failed += uint64(len(segs))
	}
	q.signalIdle()
	q.mu.Unlock()

	for _, seg := range segs {
		seg.finish(err)
	}
	q.kick()
}

// signalIdle releases Drain waiters. Caller holds q.mu.
func (q *Queue) signalIdle() {
	if q.pending == 0 && q.idle != nil {
		close(q.idle)
		q.idle = nil
	}
}

// Drain force-dispatches everything queued and waits until no request is
// pending. It returns how many scheduler requests the forced dispatch sent.
func (q *Queue) Drain(ctx context.Context) (int, error) {
	if q.stopped.IsSet() {
		return 0, ErrQueueClosed
	}
	return q.drain(ctx)
}

func (q *Queue) drain(ctx context.Context) (int, error) {
	q.mu.Lock()
	n := q.sched.Dispatch(true)
	if q.pending == 0 {
		q.mu.Unlock()
		return n, nil
	}
	if q.idle == nil {
		q.idle = make(chan struct{})
	}
	idle := q.idle
	q.mu.Unlock()

	logging.Debug("Device %s: drain dispatched %d requests, waiting for completion", q.cfg.Name, n)
	select {
	case <-idle:
		return n, nil
	case <-ctx.Done():
		return n, fmt.Errorf("drain interrupted: %w", ctx.Err())
	}
}

// Close drains the queue, stops the dispatch loop and workers, and tears
// the scheduler down. Requests that could not be serviced complete with
// ErrQueueClosed. Calling Close more than once is a no-op.
func (q *Queue) Close(ctx context.Context) error {
	if !q.stopped.SetToIf(false, true) {
		return nil
	}

	var result *multierror.Error
	if _, err := q.drain(ctx); err != nil {
		result = multierror.Append(result, err)
	}

	close(q.stopCh)
	<-q.loopEnd

	// In-flight backend calls are abandoned only if the drain gave up.
	if result != nil {
		q.cancel()
	}
	q.mu.Lock()
	close(q.work)
	q.mu.Unlock()
	q.workers.Wait()
	q.cancel()

	q.mu.Lock()
	leftovers := append(q.sched.Queued(true), q.sched.Queued(false)...)
	dropped := q.sched.Teardown()
	for _, rq := range leftovers {
		q.index.remove(rq)
		q.pending -= len(stateOf(rq).segments)
	}
	q.signalIdle()
	q.mu.Unlock()

	for _, rq := range leftovers {
		for _, seg := range stateOf(rq).segments {
			seg.finish(ErrQueueClosed)
		}
	}
	if dropped > 0 {
		result = multierror.Append(result, fmt.Errorf("%d queued requests dropped at teardown", dropped))
	}

	if err := result.ErrorOrNil(); err != nil {
		logging.Warn("Device %s: closed with errors: %v", q.cfg.Name, err)
		return err
	}
	logging.Info("Device %s: queue closed", q.cfg.Name)
	return nil
}

// Tunables returns every scheduler tunable in text form.
func (q *Queue) Tunables() map[string]string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(map[string]string)
	for _, attr := range iosched.Attributes() {
		v, err := q.sched.Show(attr.Name)
		if err != nil {
			logging.Warn("Device %s: skipping tunable %s: %v", q.cfg.Name, attr.Name, err)
			continue
		}
		out[attr.Name] = v
	}
	return out
}

// ShowTunable returns one tunable in text form.
func (q *Queue) ShowTunable(name string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sched.Show(name)
}

// StoreTunable parses text into the named tunable.
func (q *Queue) StoreTunable(name, text string) error {
	q.mu.Lock()
	err := q.sched.Store(name, text)
	q.mu.Unlock()
	if err != nil {
		return err
	}

	logging.Info("Device %s: %s set to %q", q.cfg.Name, name, text)
	q.kick()
	return nil
}

// Stats returns a snapshot of the queue and scheduler counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	st := q.counters
	st.Scheduler = q.sched.Stats()
	st.Pending = q.pending
	st.InFlight = q.inflight
	q.mu.Unlock()

	st.Device = q.cfg.Name
	st.QueueDepth = q.cfg.QueueDepth
	st.MaxPending = q.cfg.MaxPending
	st.Backend = q.backend.Info()
	return st
}
