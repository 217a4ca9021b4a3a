package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is an interface for components that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// pingChecker adapts a ping function to HealthChecker.
type pingChecker struct {
	name string
	ping func(ctx context.Context) error
}

func (p pingChecker) Name() string                    { return p.name }
func (p pingChecker) Check(ctx context.Context) error { return p.ping(ctx) }

// NewPingChecker wraps ping as a HealthChecker called name.
func NewPingChecker(name string, ping func(ctx context.Context) error) HealthChecker {
	return pingChecker{name: name, ping: ping}
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checkers   []HealthChecker
	recognizer string
	version    string
	startAt    time.Time
	timeout    time.Duration
}

// NewHealthHandler creates a HealthHandler. recognizer names the active
// recognizer in the liveness body.
func NewHealthHandler(version, recognizer string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers:   checkers,
		recognizer: recognizer,
		version:    version,
		startAt:    time.Now(),
		timeout:    5 * time.Second,
	}
}

// LivenessResponse is the response for the liveness probe.
type LivenessResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Recognizer string `json:"recognizer,omitempty"`
	Uptime     string `json:"uptime"`
}

// ReadinessResponse is the response for the readiness probe.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz. Always 200 while the process serves requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	writeJSON(c, http.StatusOK, LivenessResponse{
		Status:     "alive",
		Version:    h.version,
		Recognizer: h.recognizer,
		Uptime:     time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz: 200 when every checker passes, 503 otherwise.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if len(h.checkers) == 0 {
		writeJSON(c, http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := ReadinessResponse{Status: "ready", Components: components}
	for _, comp := range components {
		if comp.Status != "healthy" {
			resp.Status = "not_ready"
			writeJSON(c, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(c, http.StatusOK, resp)
}

// checkAll runs all checkers concurrently.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]ComponentCheck, len(h.checkers))
	)
	for _, checker := range h.checkers {
		wg.Add(1)
		go func(hc HealthChecker) {
			defer wg.Done()
			start := time.Now()
			err := hc.Check(ctx)
			check := ComponentCheck{Status: "healthy", Latency: time.Since(start).String()}
			if err != nil {
				check.Status = "unhealthy"
				check.Error = err.Error()
			}
			mu.Lock()
			out[hc.Name()] = check
			mu.Unlock()
		}(checker)
	}
	wg.Wait()
	return out
}

//Personal.AI order the ending
