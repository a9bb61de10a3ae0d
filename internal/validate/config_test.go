package validate

import (
	"strings"
	"testing"
	"time"
)

func TestValidatePortRange(t *testing.T) {
	for _, port := range []int{1, 80, 7070, 65535} {
		if err := ValidatePortRange(port); err != nil {
			t.Errorf("ValidatePortRange(%d) unexpected error: %v", port, err)
		}
	}
	for _, port := range []int{0, -1, 65536} {
		if err := ValidatePortRange(port); err == nil {
			t.Errorf("ValidatePortRange(%d) expected error", port)
		}
	}
}

func TestValidateRequiredString(t *testing.T) {
	if err := ValidateRequiredString("file", "backend"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateRequiredString("", "backend path")
	if err == nil || err.Error() != "backend path cannot be empty" {
		t.Errorf("expected 'backend path cannot be empty', got %v", err)
	}
}

func TestValidatePositiveTimeout(t *testing.T) {
	if err := ValidatePositiveTimeout(time.Millisecond, "dispatch interval"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, d := range []time.Duration{0, -time.Second} {
		if err := ValidatePositiveTimeout(d, "dispatch interval"); err == nil {
			t.Errorf("expected error for %v", d)
		}
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := ValidatePositiveInt(1, "depth"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidatePositiveInt(0, "depth")
	if err == nil || !strings.Contains(err.Error(), "depth must be at least 1") {
		t.Errorf("expected depth error, got %v", err)
	}
}

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf("file", "backend", "memory", "file"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidateOneOf("nvme", "backend", "memory", "file")
	if err == nil || !strings.Contains(err.Error(), "invalid backend 'nvme'") {
		t.Errorf("expected backend error, got %v", err)
	}
}
