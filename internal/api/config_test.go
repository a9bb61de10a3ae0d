package api

import (
	"testing"
	"time"
)

// TestConfig_Validate_Valid tests Config.Validate() with valid configuration
func TestConfig_Validate_Valid(t *testing.T) {
	config := newTestConfig(t)

	err := config.Validate()
	if err != nil {
		t.Errorf("Config.Validate() = %v, want nil", err)
	}
}

// TestConfig_Validate_Invalid tests Config.Validate() with key invalid cases
func TestConfig_Validate_Invalid(t *testing.T) {
	queue := newTestQueue(t)

	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "empty bind address",
			config: &Config{BindAddr: "", BindPort: 8080, RequestTimeout: time.Second, Queue: queue},
		},
		{
			name:   "invalid port",
			config: &Config{BindAddr: "127.0.0.1", BindPort: 0, RequestTimeout: time.Second, Queue: queue},
		},
		{
			name:   "invalid port high",
			config: &Config{BindAddr: "127.0.0.1", BindPort: 99999, RequestTimeout: time.Second, Queue: queue},
		},
		{
			name:   "zero request timeout",
			config: &Config{BindAddr: "127.0.0.1", BindPort: 8080, Queue: queue},
		},
		{
			name:   "nil device queue",
			config: &Config{BindAddr: "127.0.0.1", BindPort: 8080, RequestTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if err == nil {
				t.Errorf("Config.Validate() = nil, want error for %s", tt.name)
			}
		})
	}
}

// TestDefaultConfig tests that defaults only lack the queue
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BindAddr != "127.0.0.1" {
		t.Errorf("DefaultConfig() BindAddr = %q, want 127.0.0.1", config.BindAddr)
	}
	if config.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("DefaultConfig() RequestTimeout = %v, want %v", config.RequestTimeout, DefaultRequestTimeout)
	}
	if err := config.Validate(); err == nil {
		t.Error("DefaultConfig().Validate() = nil, want error for missing queue")
	}
}
