package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cause := stderrors.New("boom")
	tests := []struct {
		err  *AppError
		want int
	}{
		{MissingArgument("month is required"), http.StatusBadRequest},
		{InvalidArgument(cause, "invalid month"), http.StatusBadRequest},
		{UpstreamFailure(cause, "fetch failed"), http.StatusBadGateway},
		{StoreFailure(cause, "query failed"), http.StatusInternalServerError},
		{Internal("oops"), http.StatusInternalServerError},
		{NotFound("nope"), http.StatusNotFound},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{ServiceUnavailable("later"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		if tt.err.StatusCode != tt.want {
			t.Errorf("%s status = %d, want %d", tt.err.Code, tt.err.StatusCode, tt.want)
		}
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StoreFailure(cause, "Error fetching statistics")

	if !stderrors.Is(err, cause) {
		t.Error("StoreFailure should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestWriteError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	err := StoreFailure(stderrors.New("secret dsn"), "Error fetching transactions")

	WriteError(w, slog.Default(), err, "req-1")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret dsn") {
		t.Error("response leaked the error cause")
	}

	var resp struct {
		Error struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success || resp.Error.Code != string(CodeStore) || resp.Error.RequestID != "req-1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestWriteError_PlainErrorBecomesInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, slog.Default(), stderrors.New("raw"), "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), string(CodeInternal)) {
		t.Errorf("body = %s, want INTERNAL_ERROR", w.Body.String())
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, []int{1, 2}, map[string]string{"Cache-Control": "no-store"})

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[1,2]" {
		t.Errorf("body = %q, want [1,2]", got)
	}
}

func TestWriteError_UnwrapsAppError(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("handler: %w", MissingArgument("Month is required"))
	WriteError(w, slog.Default(), err, "req-2")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var resp ErrorResponse
	if decodeErr := json.NewDecoder(w.Body).Decode(&resp); decodeErr != nil {
		t.Fatalf("decode: %v", decodeErr)
	}
	if resp.Error.Code != CodeMissingArgument || resp.Error.RequestID != "req-2" {
		t.Errorf("unexpected error body: %+v", resp.Error)
	}
}
