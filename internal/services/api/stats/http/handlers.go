// Package http provides http transport for stats
package http

import (
	stdhttp "net/http"
	"strconv"

	"osmwatch/internal/core/rollup"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/modkit/swaggerkit"
	perr "osmwatch/internal/platform/errors"
	svc "osmwatch/internal/services/api/stats/service"
)

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/weekly", h.weekly)
	httpkit.Get(r, "/monthly", h.monthly)
	httpkit.Get(r, "/summary", h.summary)
	httpkit.Get(r, "/contributors", h.contributors)

	swaggerkit.Register(docPaths)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /stats/weekly Stats statsWeekly
// @Summary Weekly changeset buckets keyed by Monday
// @Tags Stats
// @Produce json
// @Success 200 {object} map[string][]changeset.Flat "ok"
// @Router /stats/weekly [get]
func (h *handlers) weekly(r *stdhttp.Request) (any, error) {
	return h.svc.Weekly(r.Context())
}

// swagger:route GET /stats/monthly Stats statsMonthly
// @Summary Monthly changeset buckets keyed by month
// @Tags Stats
// @Produce json
// @Success 200 {object} map[string][]changeset.Flat "ok"
// @Router /stats/monthly [get]
func (h *handlers) monthly(r *stdhttp.Request) (any, error) {
	return h.svc.Monthly(r.Context())
}

// swagger:route GET /stats/summary Stats statsSummary
// @Summary Totals, range, city breakdown and leaderboard of the newest rollup
// @Tags Stats
// @Produce json
// @Success 200 {object} rollup.Summary "ok"
// @Router /stats/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.Summary(r.Context())
}

// swagger:route GET /stats/contributors Stats statsContributors
// @Summary Busiest users of the newest rollup
// @Tags Stats
// @Produce json
// @Param limit query int false "rows to return, default 10"
// @Success 200 {array} rollup.Contributor "ok"
// @Router /stats/contributors [get]
func (h *handlers) contributors(r *stdhttp.Request) (any, error) {
	limit := rollup.TopN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, perr.Newf(perr.ErrorCodeValidation, "limit must be a positive integer")
		}
		limit = n
	}
	return h.svc.Contributors(r.Context(), limit)
}

func docPaths(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	bucketResp := map[string]any{
		"200": map[string]any{"description": "Bucket key to flat changeset records"},
	}
	paths["/stats/weekly"] = map[string]any{
		"get": map[string]any{
			"tags":      []any{"Stats"},
			"summary":   "Weekly changeset buckets keyed by Monday",
			"responses": bucketResp,
		},
	}
	paths["/stats/monthly"] = map[string]any{
		"get": map[string]any{
			"tags":      []any{"Stats"},
			"summary":   "Monthly changeset buckets keyed by month",
			"responses": bucketResp,
		},
	}
	paths["/stats/summary"] = map[string]any{
		"get": map[string]any{
			"tags":    []any{"Stats"},
			"summary": "Totals, range, city breakdown and leaderboard of the newest rollup",
			"responses": map[string]any{
				"200": map[string]any{"description": "Run level summary"},
			},
		},
	}
	paths["/stats/contributors"] = map[string]any{
		"get": map[string]any{
			"tags":    []any{"Stats"},
			"summary": "Busiest users of the newest rollup",
			"parameters": []any{
				map[string]any{
					"name": "limit", "in": "query", "required": false,
					"schema": map[string]any{"type": "integer", "default": 10},
				},
			},
			"responses": map[string]any{
				"200": map[string]any{"description": "Leaderboard rows, count descending"},
			},
		},
	}
}
