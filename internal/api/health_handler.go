package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/bubble-agent/internal/pkg/httputil"
	"github.com/ignite/bubble-agent/internal/service/bubble"
)

// Pinger is anything that can verify its upstream is reachable. Both the
// reply generator and the voice provider implement it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents the overall health of the system.
type HealthStatus struct {
	Status  string                    `json:"status"` // "healthy", "degraded", "unhealthy"
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "not_configured"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthChecker probes the external providers and the bubble repository.
// Any dependency can be nil; the check reports "not_configured" for nil deps.
type HealthChecker struct {
	store     *bubble.Service
	generator Pinger
	voice     Pinger
	startTime time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(store *bubble.Service, generator, voice Pinger) *HealthChecker {
	return &HealthChecker{
		store:     store,
		generator: generator,
		voice:     voice,
		startTime: time.Now(),
	}
}

const healthVersion = "1.0.0"

// HandleHealth returns the health of every component. Always 200; the status
// field conveys health. Use /health/ready for probes that need HTTP 503.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())

	httputil.OK(w, HealthStatus{
		Status:  determineOverallStatus(checks),
		Version: healthVersion,
		Uptime:  formatUptime(time.Since(hc.startTime)),
		Checks:  checks,
	})
}

// HandleLiveness always returns 200 while the process is running.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status": "alive",
		"uptime": formatUptime(time.Since(hc.startTime)),
	})
}

// HandleReadiness returns 200 only when the service can take traffic.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := hc.runAllChecks(r.Context())
	overall := determineOverallStatus(checks)

	ready := overall != "unhealthy"
	httpStatus := http.StatusOK
	if !ready {
		httpStatus = http.StatusServiceUnavailable
	}

	httputil.JSON(w, httpStatus, map[string]any{
		"ready":  ready,
		"status": overall,
		"checks": checks,
	})
}

func (hc *HealthChecker) runAllChecks(ctx context.Context) map[string]ComponentCheck {
	checks := make(map[string]ComponentCheck, 3)

	// Provider pings run concurrently for minimal total latency.
	type result struct {
		name  string
		check ComponentCheck
	}
	ch := make(chan result, 3)

	go func() { ch <- result{"generator", hc.checkPinger(ctx, hc.generator)} }()
	go func() { ch <- result{"voice", hc.checkPinger(ctx, hc.voice)} }()
	go func() { ch <- result{"repository", hc.checkRepository(ctx)} }()

	for i := 0; i < 3; i++ {
		r := <-ch
		checks[r.name] = r.check
	}

	return checks
}

func (hc *HealthChecker) checkPinger(ctx context.Context, p Pinger) ComponentCheck {
	if p == nil {
		return ComponentCheck{Status: "not_configured", Message: "not configured"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(pingCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	return ComponentCheck{
		Status:  "up",
		Latency: latency.String(),
		Message: "reachable",
	}
}

func (hc *HealthChecker) checkRepository(ctx context.Context) ComponentCheck {
	if hc.store == nil {
		return ComponentCheck{Status: "not_configured", Message: "not configured"}
	}

	countCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	count, err := hc.store.Count(countCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("count failed: %v", err),
		}
	}

	return ComponentCheck{
		Status:  "up",
		Latency: latency.String(),
		Message: fmt.Sprintf("%d bubbles tracked", count),
	}
}

// determineOverallStatus folds the component checks into one status. The
// repository is critical; a dead provider degrades but does not kill
// readiness, since state reads still work without it.
func determineOverallStatus(checks map[string]ComponentCheck) string {
	if repo, ok := checks["repository"]; ok && repo.Status == "down" {
		return "unhealthy"
	}
	for _, c := range checks {
		if c.Status == "down" {
			return "degraded"
		}
	}
	return "healthy"
}

func formatUptime(d time.Duration) string {
	return d.Round(time.Second).String()
}
