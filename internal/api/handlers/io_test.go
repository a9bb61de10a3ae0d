package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/concave-dev/anxiety/internal/device"
)

func TestSubmitIO_WriteThenRead(t *testing.T) {
	q := newTestQueue(t)
	router := newTestRouter(q)

	payload := []byte("anxiety")
	w := doJSON(t, router, http.MethodPost, "/io", IORequest{
		Op:     "write",
		Sync:   true,
		Offset: 4096,
		Data:   base64.StdEncoding.EncodeToString(payload),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("write status = %d, want %d (%s)", w.Code, http.StatusOK, w.Body.String())
	}

	var wrote IOResponse
	decode(t, w, &wrote)
	if wrote.Length != uint64(len(payload)) {
		t.Errorf("write length = %d, want %d", wrote.Length, len(payload))
	}
	if wrote.ID == "" {
		t.Error("write response has no request ID")
	}

	w = doJSON(t, router, http.MethodPost, "/io", IORequest{
		Op:     "read",
		Offset: 4096,
		Length: uint64(len(payload)),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("read status = %d, want %d (%s)", w.Code, http.StatusOK, w.Body.String())
	}

	var read IOResponse
	decode(t, w, &read)
	got, err := base64.StdEncoding.DecodeString(read.Data)
	if err != nil {
		t.Fatalf("read data is not base64: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("read data = %q, want %q", got, payload)
	}
	if read.Sync {
		t.Error("read reported sync, submitted async")
	}
}

func TestSubmitIO_BadRequests(t *testing.T) {
	router := newTestRouter(newTestQueue(t))

	tests := []struct {
		name string
		body IORequest
	}{
		{"unknown op", IORequest{Op: "trim", Length: 1}},
		{"missing op", IORequest{Length: 1}},
		{"bad base64", IORequest{Op: "write", Data: "***"}},
		{"empty write", IORequest{Op: "write"}},
		{"zero length read", IORequest{Op: "read"}},
		{"past end of device", IORequest{Op: "read", Offset: testDeviceSize, Length: 512}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/io", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (%s)", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestSubmitIO_FlushAndDiscard(t *testing.T) {
	router := newTestRouter(newTestQueue(t))

	for _, body := range []IORequest{
		{Op: "flush", Sync: true},
		{Op: "discard", Offset: 0, Length: 4096},
	} {
		w := doJSON(t, router, http.MethodPost, "/io", body)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d (%s)", body.Op, w.Code, http.StatusOK, w.Body.String())
		}
	}
}

func TestSubmitIO_ClosedQueue(t *testing.T) {
	q := newTestQueue(t)
	router := newTestRouter(q)

	if err := q.Close(t.Context()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/io", IORequest{Op: "read", Length: 8})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	if !strings.Contains(w.Body.String(), device.ErrQueueClosed.Error()) {
		t.Errorf("body %q does not mention %q", w.Body.String(), device.ErrQueueClosed)
	}
}
