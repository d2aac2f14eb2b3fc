package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"identity-facade/app/port"
)

const (
	serviceName      = "identity-facade"
	serviceVersion   = "1.0.0"
	readinessTimeout = 5 * time.Second
)

var processStart = time.Now()

// HealthHandler serves the probe endpoints. Probes never touch the IdP or
// the invitation store except for readiness.
type HealthHandler struct {
	checks map[string]port.HealthChecker
	logger *slog.Logger
}

// NewHealthHandler keys checks by dependency name; the names appear in the
// readiness body.
func NewHealthHandler(checks map[string]port.HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// HealthResponse is the body of the health and liveness probes.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ReadinessResponse is the body of the readiness probe.
type ReadinessResponse struct {
	Status    string                      `json:"status"`
	Timestamp time.Time                   `json:"timestamp"`
	Service   string                      `json:"service"`
	Checks    map[string]DependencyStatus `json:"checks"`
}

type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Latency string `json:"latency,omitempty"`
}

func processStatus(state string) HealthResponse {
	return HealthResponse{
		Status:    state,
		Timestamp: time.Now(),
		Service:   serviceName,
		Version:   serviceVersion,
		Uptime:    time.Since(processStart).Truncate(time.Second).String(),
	}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, processStatus("healthy"))
}

// LivenessCheck handles GET /health/live.
func (h *HealthHandler) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, processStatus("alive"))
}

// ReadinessCheck handles GET /health/ready and answers 503 when any
// dependency fails its ping.
func (h *HealthHandler) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	results := h.probe(ctx)

	resp := ReadinessResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Service:   serviceName,
		Checks:    results,
	}
	code := http.StatusOK
	for _, r := range results {
		if r.Status != "healthy" {
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
			break
		}
	}
	return c.JSON(code, resp)
}

// probe pings every dependency concurrently. A failing check does not
// cancel the others.
func (h *HealthHandler) probe(ctx context.Context) map[string]DependencyStatus {
	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]DependencyStatus, len(h.checks))
	)

	for name, checker := range h.checks {
		g.Go(func() error {
			began := time.Now()
			err := checker.HealthCheck(ctx)
			st := DependencyStatus{Status: "healthy", Message: "connected", Latency: time.Since(began).String()}
			if err != nil {
				h.logger.WarnContext(ctx, "dependency not ready", "dependency", name, "error", err)
				st.Status = "unhealthy"
				st.Message = err.Error()
			}

			mu.Lock()
			results[name] = st
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
