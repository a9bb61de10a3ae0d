// Package resources gathers host resource snapshots for anxietyd.
//
// The daemon consults a snapshot before building a memory backend, since
// the whole device lives in RAM, and reports one on the host endpoint so
// operators can see what the device competes with.
//
// DATA COLLECTION:
// Go runtime statistics come from the runtime package, system memory and
// load averages from gopsutil. When gopsutil fails the snapshot degrades to
// runtime figures instead of failing.
package resources

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"

	"github.com/concave-dev/anxiety/internal/logging"
)

// HostResources is a point-in-time view of the host running the daemon.
type HostResources struct {
	Timestamp time.Time `json:"timestamp"`

	CPUCores int `json:"cpuCores"`

	// System memory in bytes, not Go runtime memory
	MemoryTotal     uint64  `json:"memoryTotal"`
	MemoryUsed      uint64  `json:"memoryUsed"`
	MemoryAvailable uint64  `json:"memoryAvailable"`
	MemoryUsage     float64 `json:"memoryUsage"`

	GoRoutines int    `json:"goRoutines"`
	GoMemAlloc uint64 `json:"goMemAlloc"`
	GoMemSys   uint64 `json:"goMemSys"`
	GoGCCycles uint32 `json:"goGcCycles"`

	Uptime time.Duration `json:"uptime"`
	Load1  float64       `json:"load1"`
	Load5  float64       `json:"load5"`
	Load15 float64       `json:"load15"`
}

// Gather collects a snapshot. startTime is the daemon start, used for uptime.
func Gather(startTime time.Time) *HostResources {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	virtualMem, err := mem.VirtualMemory()
	if err != nil {
		logging.Error("Failed to get system memory stats: %v", err)
		virtualMem = &mem.VirtualMemoryStat{
			Total:     memStats.Sys,
			Used:      memStats.Alloc,
			Available: memStats.Sys - memStats.Alloc,
		}
	}

	host := &HostResources{
		Timestamp: time.Now(),
		CPUCores:  runtime.NumCPU(),

		MemoryTotal:     virtualMem.Total,
		MemoryUsed:      virtualMem.Used,
		MemoryAvailable: virtualMem.Available,
		MemoryUsage:     virtualMem.UsedPercent,

		GoRoutines: runtime.NumGoroutine(),
		GoMemAlloc: memStats.Alloc,
		GoMemSys:   memStats.Sys,
		GoGCCycles: memStats.NumGC,

		Uptime: time.Since(startTime),
	}

	// Load averages are not available everywhere (Windows)
	if avg, err := load.Avg(); err == nil {
		host.Load1, host.Load5, host.Load15 = avg.Load1, avg.Load5, avg.Load15
	} else {
		logging.Debug("Load averages unavailable: %v", err)
	}

	logging.Debug("Gathered host resources: CPU=%d, Memory=%s available, Goroutines=%d",
		host.CPUCores, humanize.IBytes(host.MemoryAvailable), host.GoRoutines)

	return host
}

// CheckMemoryBackend fails when a memory-backed device of size bytes would
// not fit in the host's available memory.
func (h *HostResources) CheckMemoryBackend(size uint64) error {
	if size > h.MemoryAvailable {
		return fmt.Errorf("memory backend of %s exceeds available memory %s",
			humanize.IBytes(size), humanize.IBytes(h.MemoryAvailable))
	}
	if h.MemoryAvailable > 0 && float64(size)/float64(h.MemoryAvailable) > 0.5 {
		logging.Warn("Memory backend of %s uses over half of available memory (%s)",
			humanize.IBytes(size), humanize.IBytes(h.MemoryAvailable))
	}
	return nil
}
