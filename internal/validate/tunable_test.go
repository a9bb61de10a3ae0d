package validate

import (
	"strings"
	"testing"
)

// TestTunableName tests TunableName function
func TestTunableName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"sync ratio", "sync_ratio", false},
		{"batch count", "batch_count", false},
		{"with digits", "fifo_expire2", false},
		{"single letter", "a", false},
		{"empty", "", true},
		{"uppercase", "SYNC_RATIO", true},
		{"leading digit", "2fast", true},
		{"leading underscore", "_ratio", true},
		{"hyphen", "sync-ratio", true},
		{"path traversal", "../sync_ratio", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TunableName(tt.input)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for input '%s', but got none", tt.input)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error for input '%s', but got: %v", tt.input, err)
			}
		})
	}
}
