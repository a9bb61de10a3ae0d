package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRunWithWatch_Once(t *testing.T) {
	calls := 0
	err := RunWithWatch(func() error {
		calls++
		return nil
	}, false, time.Second, "test")

	if err != nil {
		t.Fatalf("RunWithWatch() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRunWithWatch_OnceReturnsError(t *testing.T) {
	want := errors.New("daemon unreachable")
	err := RunWithWatch(func() error { return want }, false, time.Second, "test")
	if !errors.Is(err, want) {
		t.Errorf("RunWithWatch() error = %v, want %v", err, want)
	}
}
