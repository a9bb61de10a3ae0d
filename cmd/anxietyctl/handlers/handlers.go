// Package handlers provides command handler functions for anxietyctl.
//
// Each handler has the cobra RunE signature, sets up logging, calls the
// anxietyd API through the client package and hands the result to the
// display package.
//
// - tunable.go: scheduler tunables (ls, get, set)
// - stats.go: queue counters and forced drain
// - io.go: single read and write requests for exercising the device
// - info.go: daemon health and host resources
package handlers
