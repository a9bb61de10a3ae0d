package iosched

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBatchCount_Clamp(t *testing.T) {
	s, _ := newTestScheduler(t)

	for _, v := range []uint8{0, 1, 2, 4, 128, 255} {
		s.SetBatchCount(v)
		assert.Equal(t, max(v, 1), s.BatchCount(), "input %d", v)
	}
}

func TestSetSyncRatio_NoFloor(t *testing.T) {
	s, _ := newTestScheduler(t)

	for _, v := range []uint8{0, 1, 8, 255} {
		s.SetSyncRatio(v)
		assert.Equal(t, v, s.SyncRatio(), "input %d", v)
	}
}

func TestStoreTunables(t *testing.T) {
	tests := []struct {
		name      string
		tunable   string
		input     string
		want      string
		wantError bool
	}{
		{"sync ratio plain", TunableSyncRatio, "12", "12", false},
		{"sync ratio newline", TunableSyncRatio, "3\n", "3", false},
		{"sync ratio zero", TunableSyncRatio, "0", "0", false},
		{"sync ratio max", TunableSyncRatio, "255", "255", false},
		{"batch count zero clamps", TunableBatchCount, "0\n", "1", false},
		{"batch count plain", TunableBatchCount, "16", "16", false},
		{"out of range", TunableSyncRatio, "256", "", true},
		{"negative", TunableBatchCount, "-1", "", true},
		{"empty", TunableSyncRatio, "", "", true},
		{"only newline", TunableSyncRatio, "\n", "", true},
		{"two newlines", TunableSyncRatio, "4\n\n", "", true},
		{"hex", TunableBatchCount, "0x10", "", true},
		{"leading space", TunableSyncRatio, " 4", "", true},
		{"letters", TunableBatchCount, "four", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScheduler(t)
			before, err := s.Show(tt.tunable)
			require.NoError(t, err)

			err = s.Store(tt.tunable, tt.input)
			got, showErr := s.Show(tt.tunable)
			require.NoError(t, showErr)

			if tt.wantError {
				var parseErr *ConfigParseError
				require.True(t, errors.As(err, &parseErr), "expected ConfigParseError, got %v", err)
				assert.Equal(t, tt.tunable, parseErr.Tunable)
				assert.Equal(t, tt.input, parseErr.Input)
				assert.Equal(t, before, got, "value must be unchanged on parse failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigParseError_Unwrap(t *testing.T) {
	s, _ := newTestScheduler(t)

	err := s.StoreSyncRatio("300")
	assert.ErrorIs(t, err, strconv.ErrRange)

	err = s.StoreBatchCount("abc")
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), "batch_count")
}

func TestShowRoundTrip(t *testing.T) {
	s, _ := newTestScheduler(t)

	require.NoError(t, s.StoreSyncRatio(s.ShowSyncRatio()))
	require.NoError(t, s.StoreBatchCount(s.ShowBatchCount()))
	assert.Equal(t, "8", s.ShowSyncRatio())
	assert.Equal(t, "4", s.ShowBatchCount())
}

func TestUnknownTunable(t *testing.T) {
	s, _ := newTestScheduler(t)

	_, err := s.Show("fifo_expire")
	assert.ErrorIs(t, err, ErrUnknownTunable)

	err = s.Store("fifo_expire", "1")
	assert.ErrorIs(t, err, ErrUnknownTunable)
}

func TestAttributes(t *testing.T) {
	attrs := Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, TunableSyncRatio, attrs[0].Name)
	assert.Equal(t, TunableBatchCount, attrs[1].Name)

	// Callers get a copy.
	attrs[0].Name = "changed"
	assert.Equal(t, TunableSyncRatio, Attributes()[0].Name)
}
