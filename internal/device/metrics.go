package device

import (
	"fmt"
	"io"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/concave-dev/anxiety/internal/iosched"
)

// queueMetrics lives in its own set so several queues (and tests) never
// collide in the global registry.
type queueMetrics struct {
	set *vm.Set

	submitted       *vm.Counter
	rejected        *vm.Counter
	merged          *vm.Counter
	failed          *vm.Counter
	syncDispatched  *vm.Counter
	asyncDispatched *vm.Counter
	latency         *vm.Histogram
}

func newQueueMetrics(q *Queue) *queueMetrics {
	set := vm.NewSet()
	name := func(metric, extra string) string {
		if extra == "" {
			return fmt.Sprintf(`%s{device=%q}`, metric, q.cfg.Name)
		}
		return fmt.Sprintf(`%s{device=%q,%s}`, metric, q.cfg.Name, extra)
	}

	m := &queueMetrics{
		set:             set,
		submitted:       set.NewCounter(name("anxiety_submitted_total", "")),
		rejected:        set.NewCounter(name("anxiety_rejected_total", "")),
		merged:          set.NewCounter(name("anxiety_merged_total", "")),
		failed:          set.NewCounter(name("anxiety_failed_total", "")),
		syncDispatched:  set.NewCounter(name("anxiety_dispatched_total", `class="sync"`)),
		asyncDispatched: set.NewCounter(name("anxiety_dispatched_total", `class="async"`)),
		latency:         set.NewHistogram(name("anxiety_backend_latency_seconds", "")),
	}

	set.NewGauge(name("anxiety_queue_depth", `class="sync"`), func() float64 {
		q.mu.Lock()
		defer q.mu.Unlock()
		return float64(q.sched.SyncLen())
	})
	set.NewGauge(name("anxiety_queue_depth", `class="async"`), func() float64 {
		q.mu.Lock()
		defer q.mu.Unlock()
		return float64(q.sched.AsyncLen())
	})
	set.NewGauge(name("anxiety_inflight", ""), func() float64 {
		q.mu.Lock()
		defer q.mu.Unlock()
		return float64(q.inflight)
	})

	return m
}

func (m *queueMetrics) dispatched(rq *iosched.Request) {
	if rq.Sync {
		m.syncDispatched.Inc()
	} else {
		m.asyncDispatched.Inc()
	}
}

// WritePrometheus writes the queue's metrics in Prometheus text format.
func (q *Queue) WritePrometheus(w io.Writer) {
	q.metrics.set.WritePrometheus(w)
}
