package utils

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/concave-dev/anxiety/internal/logging"
)

// DefaultWatchInterval is the refresh period of watch mode when none is given
const DefaultWatchInterval = 2 * time.Second

// MinWatchInterval keeps watch mode from hammering the daemon
const MinWatchInterval = 100 * time.Millisecond

// WatchOutput is where the screen-clear sequence and header go
var WatchOutput io.Writer = os.Stdout

// RunWithWatch runs fn once, or with enableWatch clears the screen and
// reruns it every interval until SIGINT or SIGTERM, like watch(1). Errors
// after the first run are logged and the loop keeps going so a restarting
// daemon does not end the session.
func RunWithWatch(fn func() error, enableWatch bool, interval time.Duration, title string) error {
	if !enableWatch {
		return fn()
	}
	if interval < MinWatchInterval {
		interval = MinWatchInterval
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refresh := func() error {
		fmt.Fprint(WatchOutput, "\033[2J\033[H")
		fmt.Fprintf(WatchOutput, "Every %s: %s    %s\n\n", interval, title, time.Now().Format(time.TimeOnly))
		return fn()
	}

	if err := refresh(); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			if err := refresh(); err != nil {
				logging.Error("Error updating display: %v", err)
			}
		case <-sigChan:
			fmt.Fprintln(WatchOutput, "\nWatch mode interrupted")
			return nil
		}
	}
}
