package validate

import (
	"testing"
)

// Test cases for ParseBindAddress function
func TestParseBindAddress(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedIP   string
		expectedPort int
	}{
		{"valid IPv4 address", "192.168.1.1:8080", false, "192.168.1.1", 8080},
		{"valid localhost", "127.0.0.1:7070", false, "127.0.0.1", 7070},
		{"valid any address", "0.0.0.0:9000", false, "0.0.0.0", 9000},
		{"kernel assigned port", "127.0.0.1:0", false, "127.0.0.1", 0},
		{"valid IPv6", "[::1]:7070", false, "::1", 7070},
		{"empty address", "", true, "", 0},
		{"missing port", "192.168.1.1", true, "", 0},
		{"hostname instead of IP", "localhost:7070", true, "", 0},
		{"port too high", "127.0.0.1:70000", true, "", 0},
		{"non-numeric port", "127.0.0.1:http", true, "", 0},
		{"negative port", "127.0.0.1:-1", true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseBindAddress(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s', but got none", tt.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for input '%s': %v", tt.input, err)
			}
			if addr.Host != tt.expectedIP {
				t.Errorf("Expected host '%s', got '%s'", tt.expectedIP, addr.Host)
			}
			if addr.Port != tt.expectedPort {
				t.Errorf("Expected port %d, got %d", tt.expectedPort, addr.Port)
			}
		})
	}
}

// TestNetworkAddressString tests host:port rendering
func TestNetworkAddressString(t *testing.T) {
	tests := []struct {
		addr NetworkAddress
		want string
	}{
		{NetworkAddress{Host: "127.0.0.1", Port: 7070}, "127.0.0.1:7070"},
		{NetworkAddress{Host: "::1", Port: 7070}, "[::1]:7070"},
	}

	for _, tt := range tests {
		if got := tt.addr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// Test ValidateField with common tags
func TestValidateField(t *testing.T) {
	tests := []struct {
		name        string
		value       any
		tag         string
		expectError bool
	}{
		{"valid IP", "10.0.0.1", "required,ip", false},
		{"invalid IP", "10.0.0", "required,ip", true},
		{"in range", 8, "min=0,max=255", false},
		{"out of range", 300, "min=0,max=255", true},
		{"required empty string", "", "required", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.value, tt.tag)
			if tt.expectError && err == nil {
				t.Errorf("Expected error for %v with tag %q", tt.value, tt.tag)
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error for %v with tag %q: %v", tt.value, tt.tag, err)
			}
		})
	}
}

// Benchmark ParseBindAddress for performance testing
func BenchmarkParseBindAddress(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ParseBindAddress("127.0.0.1:7070")
	}
}
