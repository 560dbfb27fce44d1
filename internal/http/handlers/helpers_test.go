package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chargehub/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("reservation 42: %w", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("already completed: %w", service.ErrInvalidState), http.StatusBadRequest},
		{fmt.Errorf("energy negative: %w", service.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("window taken: %w", service.ErrConflict), http.StatusConflict},
		{fmt.Errorf("bad otp: %w", service.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("db gone"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tt.err)
		if rec.Code != tt.status {
			t.Errorf("writeServiceError(%v) status = %d, want %d", tt.err, rec.Code, tt.status)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not json: %v", err)
		}
		if body["error"] == "" {
			t.Errorf("writeServiceError(%v) produced empty error message", tt.err)
		}
	}
}

func TestWriteServiceErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, fmt.Errorf("pq: connection refused"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	if body["error"] != "internal error" {
		t.Errorf("internal error leaked: %q", body["error"])
	}
}
