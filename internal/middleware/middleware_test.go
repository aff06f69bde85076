package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
})

func TestCORS_SimpleRequestEchoesOrigin(t *testing.T) {
	h := CORS(OpenCORSConfig())(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS(OpenCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/change-model/deepseek-coder", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if called {
		t.Error("preflight should not reach the handler")
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Errorf("expected requested method echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-Custom" {
		t.Errorf("expected requested headers echoed, got %q", got)
	}
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	h := CORS(OpenCORSConfig())(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers without Origin")
	}
}

func TestCORS_RestrictedOrigin(t *testing.T) {
	cfg := &CORSConfig{AllowedOrigins: []string{"https://allowed.example"}, AllowedMethods: []string{"GET"}}
	h := CORS(cfg)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://other.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("disallowed origin should not get CORS headers")
	}
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		if r.Header.Get(RequestIDHeader) != seen {
			t.Errorf("request header and context disagree")
		}
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a UUID request ID, got %q", seen)
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expected response header %q, got %q", seen, rr.Header().Get(RequestIDHeader))
	}
}

func TestRequestID_KeepsCallerID(t *testing.T) {
	h := RequestID(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) != "caller-id" {
		t.Errorf("expected caller-id, got %q", rr.Header().Get(RequestIDHeader))
	}
}

func newBufferLogger(buf *bytes.Buffer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(buf),
		zap.DebugLevel,
	)
	return zap.New(core)
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	h := RequestID(Logger(newBufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/models", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
	}
	if entry["status"] != float64(http.StatusTeapot) || entry["path"] != "/models" {
		t.Errorf("unexpected log entry %v", entry)
	}
	if entry["request_id"] == "" {
		t.Error("expected request_id in log entry")
	}
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	h := Recoverer(newBufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chat", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("expected error payload, got %q", rr.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}
