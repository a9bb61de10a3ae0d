// Package display provides output formatting for anxietyctl.
//
// Every Display function honours config.Global.Output: "json" re-encodes the
// API response with indentation, anything else prints a table through
// text/tabwriter. Byte quantities are formatted with go-humanize and section
// headings are styled with lipgloss.
package display

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/client"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
	"github.com/concave-dev/anxiety/cmd/anxietyctl/utils"
	"github.com/concave-dev/anxiety/internal/logging"
)

// Out is where all display output goes
var Out io.Writer = os.Stdout

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func heading(title string) {
	fmt.Fprintln(Out, headingStyle.Render(title))
}

func isJSON() bool {
	return config.Global.Output == "json"
}

// encodeJSON writes v as indented JSON
func encodeJSON(v any) {
	encoder := json.NewEncoder(Out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Fprintln(Out, "Error encoding JSON output")
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
}

// DisplayTunables prints every scheduler tunable of a device
func DisplayTunables(list *client.TunableList) {
	if isJSON() {
		encodeJSON(list)
		return
	}

	if len(list.Tunables) == 0 {
		fmt.Fprintln(Out, "No tunables found")
		return
	}

	w := newTable()
	defer w.Flush()

	if config.Global.Verbose {
		fmt.Fprintln(w, "NAME\tVALUE\tDEFAULT\tDESCRIPTION")
	} else {
		fmt.Fprintln(w, "NAME\tVALUE\tDEFAULT")
	}
	for _, t := range list.Tunables {
		if config.Global.Verbose {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Name, t.Value, t.Default, t.Description)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%d\n", t.Name, t.Value, t.Default)
		}
	}
}

// DisplayTunable prints a single tunable. Table mode prints the bare value
// the way reading a sysfs attribute would.
func DisplayTunable(t *client.Tunable) {
	if isJSON() {
		encodeJSON(t)
		return
	}
	fmt.Fprintln(Out, t.Value)
}

// DisplayStats prints device queue and scheduler counters
func DisplayStats(stats *client.DeviceStats) {
	if isJSON() {
		encodeJSON(stats)
		return
	}

	s := stats.Scheduler
	dispatched := s.SyncDispatched + s.AsyncDispatched

	heading(fmt.Sprintf("Device %s (%s)", stats.Device, stats.Backend.Kind))
	w := newTable()
	fmt.Fprintf(w, "Pending:\t%d/%d\n", stats.Pending, stats.MaxPending)
	fmt.Fprintf(w, "In flight:\t%d/%d\n", stats.InFlight, stats.QueueDepth)
	fmt.Fprintf(w, "Submitted:\t%s\n", humanize.Comma(int64(stats.Submitted)))
	fmt.Fprintf(w, "Completed:\t%s\n", humanize.Comma(int64(stats.Completed)))
	fmt.Fprintf(w, "Failed:\t%s\n", humanize.Comma(int64(stats.Failed)))
	fmt.Fprintf(w, "Rejected:\t%s\n", humanize.Comma(int64(stats.Rejected)))
	fmt.Fprintf(w, "Merged:\t%s\n", humanize.Comma(int64(stats.Merged)))
	fmt.Fprintf(w, "Size:\t%s\n", humanize.IBytes(stats.Backend.Size))
	if stats.Backend.Path != "" {
		fmt.Fprintf(w, "Path:\t%s\n", stats.Backend.Path)
	}
	if stats.Backend.FSTotal > 0 {
		fmt.Fprintf(w, "Filesystem:\t%s free of %s (%s, %.1f%% used)\n",
			humanize.IBytes(stats.Backend.FSFree), humanize.IBytes(stats.Backend.FSTotal),
			stats.Backend.FSType, stats.Backend.FSUsedPercent)
	}
	w.Flush()

	fmt.Fprintln(Out)
	heading(fmt.Sprintf("Scheduler (sync_ratio=%d batch_count=%d)", s.SyncRatio, s.BatchCount))
	w = newTable()
	fmt.Fprintln(w, "CLASS\tQUEUED\tDISPATCHED\tSHARE")
	fmt.Fprintf(w, "sync\t%d\t%s\t%s\n", s.SyncQueued,
		humanize.Comma(int64(s.SyncDispatched)), utils.FormatRatio(s.SyncDispatched, dispatched))
	fmt.Fprintf(w, "async\t%d\t%s\t%s\n", s.AsyncQueued,
		humanize.Comma(int64(s.AsyncDispatched)), utils.FormatRatio(s.AsyncDispatched, dispatched))
	w.Flush()

	if config.Global.Verbose {
		fmt.Fprintln(Out)
		w = newTable()
		fmt.Fprintf(w, "Dispatch calls:\t%s\n", humanize.Comma(int64(s.DispatchCalls)))
		fmt.Fprintf(w, "Forced drains:\t%s\n", humanize.Comma(int64(s.ForcedDispatches)))
		fmt.Fprintf(w, "Scheduler merges:\t%s\n", humanize.Comma(int64(s.Merged)))
		fmt.Fprintf(w, "Dropped:\t%s\n", humanize.Comma(int64(s.Dropped)))
		w.Flush()
	}
}

// DisplayDrain prints the outcome of a forced drain
func DisplayDrain(result *client.DrainResult) {
	if isJSON() {
		encodeJSON(result)
		return
	}
	fmt.Fprintf(Out, "Drained %d requests from %s in %s\n", result.Dispatched, result.Device, result.Duration)
}

// DisplayIOResult prints a completed request. Read data is hex-dumped in
// table mode; JSON mode carries it base64 encoded.
func DisplayIOResult(result *client.IOResult, data []byte) {
	if isJSON() {
		encodeJSON(result)
		return
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tOP\tCLASS\tOFFSET\tLENGTH\tMERGED\tLATENCY")
	class := "async"
	if result.Sync {
		class = "sync"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%t\t%s\n", result.ID, result.Op, class,
		result.Offset, humanize.IBytes(result.Length), result.Merged, result.Latency)
	w.Flush()

	if len(data) > 0 {
		fmt.Fprintln(Out)
		fmt.Fprint(Out, hex.Dump(data))
	}
}

// DisplayHealth prints daemon health
func DisplayHealth(health *client.Health) {
	if isJSON() {
		encodeJSON(health)
		return
	}

	w := newTable()
	defer w.Flush()
	fmt.Fprintf(w, "Status:\t%s\n", health.Status)
	fmt.Fprintf(w, "Device:\t%s\n", health.Device)
	fmt.Fprintf(w, "Pending:\t%d (%d in flight)\n", health.Pending, health.InFlight)
	fmt.Fprintf(w, "Version:\t%s\n", health.Version)
	fmt.Fprintf(w, "Uptime:\t%s\n", health.Uptime)
}

// DisplayHost prints the daemon host's resources
func DisplayHost(host *client.HostResources) {
	if isJSON() {
		encodeJSON(host)
		return
	}

	heading("Host")
	w := newTable()
	defer w.Flush()
	fmt.Fprintf(w, "CPU cores:\t%d\n", host.CPUCores)
	fmt.Fprintf(w, "Memory:\t%s used of %s (%.1f%%)\n",
		humanize.IBytes(host.MemoryUsed), humanize.IBytes(host.MemoryTotal), host.MemoryUsage)
	fmt.Fprintf(w, "Available:\t%s\n", humanize.IBytes(host.MemoryAvailable))
	fmt.Fprintf(w, "Load:\t%.2f %.2f %.2f\n", host.Load1, host.Load5, host.Load15)
	fmt.Fprintf(w, "Goroutines:\t%d\n", host.GoRoutines)
	fmt.Fprintf(w, "Go heap:\t%s (sys %s, %d GC cycles)\n",
		humanize.IBytes(host.GoMemAlloc), humanize.IBytes(host.GoMemSys), host.GoGCCycles)
	fmt.Fprintf(w, "Daemon uptime:\t%s\n", utils.FormatDuration(host.Uptime))
	if !host.Timestamp.IsZero() && config.Global.Verbose {
		fmt.Fprintf(w, "Sampled:\t%s\n", humanize.Time(host.Timestamp))
	}
}

// DisplayInfo prints health and host together for the info command
func DisplayInfo(health *client.Health, host *client.HostResources) {
	if isJSON() {
		encodeJSON(struct {
			Health *client.Health        `json:"health"`
			Host   *client.HostResources `json:"host"`
		}{health, host})
		return
	}

	heading("anxietyd")
	DisplayHealth(health)
	fmt.Fprintln(Out)
	DisplayHost(host)
}
