package client

import "time"

// ErrorResponse is the body anxietyd sends with every non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Health is the response of GET /health.
type Health struct {
	Status    string    `json:"status"`
	Device    string    `json:"device"`
	Pending   int       `json:"pending"`
	InFlight  int       `json:"in_flight"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// Tunable is one scheduler tunable and its current text value.
type Tunable struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Default     uint8  `json:"default"`
}

// TunableList is the response of GET /iosched/tunables.
type TunableList struct {
	Device   string    `json:"device"`
	Tunables []Tunable `json:"tunables"`
}

// SchedulerStats mirrors the scheduler counters.
type SchedulerStats struct {
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

// BackendInfo describes the device's backing store.
type BackendInfo struct {
	Kind          string  `json:"kind"`
	Size          uint64  `json:"size"`
	Path          string  `json:"path,omitempty"`
	FSTotal       uint64  `json:"fs_total,omitempty"`
	FSFree        uint64  `json:"fs_free,omitempty"`
	FSUsedPercent float64 `json:"fs_used_percent,omitempty"`
	FSType        string  `json:"fs_type,omitempty"`
}

// DeviceStats is the response of GET /iosched/stats.
type DeviceStats struct {
	Device     string         `json:"device"`
	Scheduler  SchedulerStats `json:"scheduler"`
	Pending    int            `json:"pending"`
	InFlight   int            `json:"in_flight"`
	QueueDepth int            `json:"queue_depth"`
	MaxPending int            `json:"max_pending"`
	Submitted  uint64         `json:"submitted"`
	Completed  uint64         `json:"completed"`
	Failed     uint64         `json:"failed"`
	Rejected   uint64         `json:"rejected"`
	Merged     uint64         `json:"merged_segments"`
	Backend    BackendInfo    `json:"backend"`
}

// DrainResult is the response of POST /iosched/drain.
type DrainResult struct {
	Device     string `json:"device"`
	Dispatched int    `json:"dispatched"`
	Duration   string `json:"duration"`
}

// IORequest is the body of POST /io. Data is base64.
type IORequest struct {
	Op     string `json:"op"`
	Sync   bool   `json:"sync"`
	Offset uint64 `json:"offset"`
	Length uint64 `json:"length,omitempty"`
	Data   string `json:"data,omitempty"`
}

// IOResult is the response of POST /io. Data is base64 read data.
type IOResult struct {
	ID      string `json:"id"`
	Op      string `json:"op"`
	Sync    bool   `json:"sync"`
	Offset  uint64 `json:"offset"`
	Length  uint64 `json:"length"`
	Merged  bool   `json:"merged"`
	Latency string `json:"latency"`
	Data    string `json:"data,omitempty"`
}

// HostResources is the response of GET /host.
type HostResources struct {
	Timestamp       time.Time     `json:"timestamp"`
	CPUCores        int           `json:"cpuCores"`
	MemoryTotal     uint64        `json:"memoryTotal"`
	MemoryUsed      uint64        `json:"memoryUsed"`
	MemoryAvailable uint64        `json:"memoryAvailable"`
	MemoryUsage     float64       `json:"memoryUsage"`
	GoRoutines      int           `json:"goRoutines"`
	GoMemAlloc      uint64        `json:"goMemAlloc"`
	GoMemSys        uint64        `json:"goMemSys"`
	GoGCCycles      uint32        `json:"goGcCycles"`
	Uptime          time.Duration `json:"uptime"`
	Load1           float64       `json:"load1"`
	Load5           float64       `json:"load5"`
	Load15          float64       `json:"load15"`
}
