package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRespectsFormat(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer

	New(Config{Writer: &jsonBuf}).Info("json line")
	New(Config{Writer: &textBuf, Format: " TEXT "}).Info("text line")

	if !json.Valid(bytes.TrimSpace(jsonBuf.Bytes())) {
		t.Fatalf("expected JSON output, got %q", jsonBuf.String())
	}
	if !strings.Contains(textBuf.String(), "msg=\"text line\"") {
		t.Fatalf("expected text output, got %q", textBuf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		" debug ": slog.LevelDebug,
		"warning": slog.LevelWarn,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"trace":   slog.LevelInfo,
		"info+2":  slog.LevelInfo + 2,
	} {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Level: "warn"})
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

func TestRequestIDOnContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "  ")
	if id := RequestIDFrom(ctx); id != "" {
		t.Fatalf("expected blank id to be ignored, got %q", id)
	}
	if id := RequestIDFrom(WithRequestID(ctx, " abc ")); id != "abc" {
		t.Fatalf("expected abc, got %q", id)
	}
}

func TestRequestAndComponentFields(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(Config{Writer: &buf}), "videos")

	Request(WithRequestID(context.Background(), "req-9"), logger).Info("hello")
	Request(context.Background(), logger).Info("bare")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two log lines, got %q", buf.String())
	}
	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["component"] != "videos" || first["request_id"] != "req-9" {
		t.Fatalf("unexpected fields %v", first)
	}
	if _, ok := second["request_id"]; ok {
		t.Fatalf("expected no request_id without one on the context, got %v", second)
	}
}

func TestMiddlewareLogsRequestWithID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf})

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request completed" {
		t.Fatalf("unexpected message %v", entry["msg"])
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", entry["request_id"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("expected status 418, got %v", entry["status"])
	}
	if entry["path"] != "/ping" || entry["method"] != http.MethodGet {
		t.Fatalf("unexpected method/path %v %v", entry["method"], entry["path"])
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = RequestIDFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(RequestIDHeader)
	if header == "" {
		t.Fatal("expected generated request id")
	}
	if seen != header {
		t.Fatalf("context id %q does not match header %q", seen, header)
	}
}
