package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/concave-dev/anxiety/cmd/anxietyctl/config"
)

func TestWritePayload(t *testing.T) {
	dir := t.TempDir()
	payloadFile := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(payloadFile, []byte("from-file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    string
		file    string
		want    string
		wantErr bool
	}{
		{"literal data", "hello", "", "hello", false},
		{"file payload", "", payloadFile, "from-file", false},
		{"both set", "hello", payloadFile, "", true},
		{"neither set", "", "", "", true},
		{"missing file", "", filepath.Join(dir, "missing"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := config.IO
			defer func() { config.IO = prev }()
			config.IO.Data = tt.data
			config.IO.File = tt.file

			got, err := writePayload()
			if (err != nil) != tt.wantErr {
				t.Fatalf("writePayload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("writePayload() = %q, want %q", got, tt.want)
			}
		})
	}
}
