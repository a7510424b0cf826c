package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestStatus(t *testing.T) {
	testCases := []struct {
		name     string
		ping     pingFunc
		code     int
		database string
	}{
		{name: "ok", ping: func(context.Context) error { return nil }, code: http.StatusOK, database: "ok"},
		{name: "down", ping: func(context.Context) error { return errors.New("refused") }, code: http.StatusServiceUnavailable, database: "unavailable"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/status", Status(tc.ping))

			rec := do(t, router, http.MethodGet, "/api/status", "")
			if rec.Code != tc.code {
				t.Fatalf("expected status %d, got %d", tc.code, rec.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["active"] != true || body["database"] != tc.database {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestStatusWithRealStore(t *testing.T) {
	router := gin.New()
	router.GET("/api/status", Status(newTestStore(t)))

	if rec := do(t, router, http.MethodGet, "/api/status", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
