// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"os"
	"time"

	"osmwatch/internal/core/version"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/modkit/swaggerkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
// PG stays optional; a nil reports skipped, not failed
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	DataPath    string
	PG          any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)

	swaggerkit.Register(docPaths)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"osmwatch-api"`
	Started string `json:"started"  example:"2024-07-01T13:00:00Z"`
	Now     string `json:"now"      example:"2024-07-01T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"data"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"stat data: no such file or directory"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2024-07-01T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"osmwatch-api"`
	Started string `json:"started" example:"2024-07-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse "ok"
// @Failure 503 type ReadyResponse "a dependency check failed"
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	data := h.checkData()
	pg := checkPinger(ctx, "pg", h.deps.PG)

	// absent deps are skipped, not failures
	overall := "ok"
	if data.Status == "fail" || pg.Status == "fail" {
		overall = "fail"
	}

	out := ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{data, pg},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}

	// orchestrators read the status code, so a sick dependency answers 503
	// with the checks still in the body
	if overall == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func (h *handlers) checkData() ReadyCheck {
	if h.deps.DataPath == "" {
		return ReadyCheck{Name: "data", Status: "skipped"}
	}
	info, err := os.Stat(h.deps.DataPath)
	if err != nil {
		return ReadyCheck{Name: "data", Status: "fail", Error: err.Error()}
	}
	if !info.IsDir() {
		return ReadyCheck{Name: "data", Status: "fail", Error: h.deps.DataPath + " is not a directory"}
	}
	return ReadyCheck{Name: "data", Status: "ok"}
}

func checkPinger(ctx stdctx.Context, name string, c any) ReadyCheck {
	if c == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	p, ok := c.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

func docPaths(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	get := func(summary, respDesc string) map[string]any {
		return map[string]any{
			"get": map[string]any{
				"tags":    []any{"Meta"},
				"summary": summary,
				"responses": map[string]any{
					"200": map[string]any{"description": respDesc},
				},
			},
		}
	}
	paths["/meta/health"] = get("Health check", "Service liveness")

	ready := get("Readiness probe with dependency checks", "Data dir and optional archive checks")
	readyGet := ready["get"].(map[string]any)
	readyGet["responses"].(map[string]any)["503"] = map[string]any{"description": "A dependency check failed"}
	paths["/meta/ready"] = ready

	paths["/meta/version"] = get("Build and version info", "Version, commit and build date")
	paths["/meta/service"] = get("Service info and uptime", "Name, start time and uptime seconds")
}
