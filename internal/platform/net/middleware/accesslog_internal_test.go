package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// exercises captureWriter directly
func TestCaptureWriter_RecordsStatusAndBytes(t *testing.T) {
	rr := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rr, status: http.StatusOK}

	cw.WriteHeader(404)
	if cw.status != 404 {
		t.Fatalf("expected status 404 got %d", cw.status)
	}
	if rr.Code != 404 {
		t.Fatalf("expected recorder code 404 got %d", rr.Code)
	}

	if _, err := cw.Write([]byte("not here")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if cw.bytes != len("not here") {
		t.Fatalf("expected %d bytes recorded got %d", len("not here"), cw.bytes)
	}
}
