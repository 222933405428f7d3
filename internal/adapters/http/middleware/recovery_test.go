package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/middleware"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	handler := middleware.Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pallets", http.NoBody)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if rec.Body.String() != `{"id":1}` {
		t.Errorf("body = %q, want %q", rec.Body.String(), `{"id":1}`)
	}
}

func TestRecovery_PanicValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "pallet index corrupted"},
		{name: "int", value: 42},
		{name: "error", value: errors.New("nil box on pallet 3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := middleware.Recovery(discardLogger())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				panic(tt.value)
			}))

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/pallets/3", http.NoBody)
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want %q", ct, "application/problem+json")
			}

			var body map[string]any
			if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body); err != nil {
				t.Fatalf("decoding response body: %v", err)
			}
			if title, _ := body["title"].(string); title != "Internal Server Error" {
				t.Errorf("title = %q, want %q", title, "Internal Server Error")
			}
			if strings.Contains(rec.Body.String(), fmt.Sprint(tt.value)) {
				t.Errorf("body = %q, must not expose the panic value", rec.Body.String())
			}
		})
	}
}

func TestRecovery_LogsPanicWithStackAndRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := middleware.Recovery(testLogger(&buf))(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic value")
	}))
	handler := middleware.RequestID()(inner)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/expiration-groups", http.NoBody)
	req.Header.Set("X-Request-ID", "req-recovery-1")
	handler.ServeHTTP(rec, req)

	logOutput := buf.String()
	for _, want := range []string{"panic recovered", "test panic value", "goroutine", "req-recovery-1"} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("log output missing %q: %s", want, logOutput)
		}
	}
}

func TestRecovery_SkipsResponseIfHeadersAlreadyWritten(t *testing.T) {
	t.Parallel()

	handler := middleware.Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late panic")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	handler.ServeHTTP(rec, req)

	// Original status should be preserved since headers were already written.
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d (original, not 500)", rec.Code, http.StatusAccepted)
	}
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	t.Parallel()

	handler := middleware.Recovery(discardLogger())(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		v := recover()
		if v != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", v)
		}
	}()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	handler.ServeHTTP(rec, req)

	t.Error("ServeHTTP returned, want re-panic")
}
