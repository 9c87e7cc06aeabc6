package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/1752rissy/envenciproject/internal/catalog"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		headerID   string
		wantEchoed bool
	}{
		{name: "client-supplied id is kept", headerID: "req-abc", wantEchoed: true},
		{name: "missing id is generated", headerID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))

			r := gin.New()
			r.Use(RequestIDMiddleware(logger))
			r.GET("/ping", func(c *gin.Context) {
				// A downstream component logging through the request context
				// must carry the request id without ever seeing the header.
				catalog.LoggerFromContext(c.Request.Context(), slog.Default()).
					Info("downstream work")
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.headerID != "" {
				req.Header.Set(requestIDHeader, tt.headerID)
			}
			r.ServeHTTP(w, req)

			gotID := w.Header().Get(requestIDHeader)
			if gotID == "" {
				t.Fatal("response must carry a request id header")
			}
			if tt.wantEchoed && gotID != tt.headerID {
				t.Fatalf("want header %q echoed, got %q", tt.headerID, gotID)
			}

			var entry map[string]any
			if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
				t.Fatalf("log entry is not JSON: %v, logs: %s", err, logs.String())
			}
			if entry["request_id"] != gotID {
				t.Fatalf("downstream log request_id %v does not match header %q", entry["request_id"], gotID)
			}
		})
	}
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	var logs bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&logs, nil))

	got := catalog.LoggerFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context(), fallback)
	if got != fallback {
		t.Fatal("context without a logger must yield the fallback")
	}
}
