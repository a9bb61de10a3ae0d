package iosched

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/concave-dev/anxiety/internal/logging"
)

const (
	// DefaultSyncRatio is the number of sync requests served per round.
	DefaultSyncRatio uint8 = 8

	// DefaultBatchCount is the number of rounds in one non-forced dispatch.
	DefaultBatchCount uint8 = 4

	// TunableSyncRatio and TunableBatchCount are the attribute names exposed
	// by the configuration interface.
	TunableSyncRatio  = "sync_ratio"
	TunableBatchCount = "batch_count"
)

// ErrUnknownTunable is returned by Show and Store for names outside the
// attribute table.
var ErrUnknownTunable = errors.New("iosched: unknown tunable")

// ConfigParseError reports tunable text that is not a decimal value in the
// 0-255 range. The stored value is left untouched when it is returned.
type ConfigParseError struct {
	Tunable string
	Input   string
	Err     error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Input, e.Tunable, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// Attribute describes one named tunable of the configuration interface.
type Attribute struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     uint8  `json:"default"`
}

var attributes = []Attribute{
	{
		Name:        TunableSyncRatio,
		Description: "sync requests dispatched per round before the async slot",
		Default:     DefaultSyncRatio,
	},
	{
		Name:        TunableBatchCount,
		Description: "rounds per non-forced dispatch (minimum 1)",
		Default:     DefaultBatchCount,
	},
}

// Attributes returns the tunable table in display order.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributes))
	copy(out, attributes)
	return out
}

// SyncRatio returns the current sync_ratio.
func (s *Scheduler) SyncRatio() uint8 {
	return s.syncRatio
}

// SetSyncRatio stores v verbatim. Zero is accepted and leaves only the async
// slot active in each round.
func (s *Scheduler) SetSyncRatio(v uint8) {
	if v == 0 {
		logging.Warn("iosched: sync_ratio set to 0, sync requests only move on forced dispatch")
	}
	s.syncRatio = v
}

// BatchCount returns the current batch_count.
func (s *Scheduler) BatchCount() uint8 {
	return s.batchCount
}

// SetBatchCount stores max(v, 1).
func (s *Scheduler) SetBatchCount(v uint8) {
	s.batchCount = max(v, 1)
}

// ShowSyncRatio renders sync_ratio as decimal text.
func (s *Scheduler) ShowSyncRatio() string {
	return strconv.FormatUint(uint64(s.syncRatio), 10)
}

// StoreSyncRatio parses text and stores it as sync_ratio.
func (s *Scheduler) StoreSyncRatio(text string) error {
	v, err := parseTunable(TunableSyncRatio, text)
	if err != nil {
		return err
	}
	s.SetSyncRatio(v)
	return nil
}

// ShowBatchCount renders batch_count as decimal text.
func (s *Scheduler) ShowBatchCount() string {
	return strconv.FormatUint(uint64(s.batchCount), 10)
}

// StoreBatchCount parses text and stores max(value, 1) as batch_count.
func (s *Scheduler) StoreBatchCount(text string) error {
	v, err := parseTunable(TunableBatchCount, text)
	if err != nil {
		return err
	}
	s.SetBatchCount(v)
	return nil
}

// Show returns the text form of the named tunable.
func (s *Scheduler) Show(name string) (string, error) {
	switch name {
	case TunableSyncRatio:
		return s.ShowSyncRatio(), nil
	case TunableBatchCount:
		return s.ShowBatchCount(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTunable, name)
	}
}

// Store parses text into the named tunable.
func (s *Scheduler) Store(name, text string) error {
	switch name {
	case TunableSyncRatio:
		return s.StoreSyncRatio(text)
	case TunableBatchCount:
		return s.StoreBatchCount(text)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownTunable, name)
	}
}

// parseTunable accepts a decimal u8 with at most one trailing newline, the
// form an `echo 4 > attr` write produces.
func parseTunable(name, text string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSuffix(text, "\n"), 10, 8)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ConfigParseError{Tunable: name, Input: text, Err: err}
	}
	return uint8(v), nil
}
