package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(h *HealthHandler, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := serveHealth(NewHealthHandler("1.2.0", "lexicon"), "/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.0", resp.Version)
	assert.Equal(t, "lexicon", resp.Recognizer)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := NewPingChecker("cache", func(context.Context) error { return nil })
	down := NewPingChecker("cache", func(context.Context) error { return fmt.Errorf("connection refused") })

	tests := []struct {
		name     string
		checkers []HealthChecker
		status   int
		body     string
	}{
		{"no checkers", nil, http.StatusOK, "ready"},
		{"all healthy", []HealthChecker{ok}, http.StatusOK, "ready"},
		{"one down", []HealthChecker{down}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveHealth(NewHealthHandler("dev", "lexicon", tt.checkers...), "/readyz")

			assert.Equal(t, tt.status, w.Code)
			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.body, resp.Status)
			if len(tt.checkers) > 0 {
				require.Contains(t, resp.Components, "cache")
			}
			if tt.status != http.StatusOK {
				assert.Equal(t, "unhealthy", resp.Components["cache"].Status)
				assert.Equal(t, "connection refused", resp.Components["cache"].Error)
			}
		})
	}
}

//Personal.AI order the ending
