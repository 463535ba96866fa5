// Package http provides http transport for changesets
package http

import (
	stdhttp "net/http"

	"osmwatch/internal/core/geo"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/modkit/swaggerkit"
	"osmwatch/internal/services/api/changesets/domain"
	svc "osmwatch/internal/services/api/changesets/service"
)

// Register mounts changesets endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	// bbox payload fields take the comma form ParseBBox accepts
	_ = httpkit.RegisterValidation("bbox", func(fl httpkit.FieldLevel) bool {
		_, err := geo.ParseBBox(fl.Field().String())
		return err == nil
	})

	h := &handlers{svc: s}

	// raw file passthrough
	httpkit.Get(r, "/", h.raw)

	// filtered query over the newest rollup
	httpkit.PostJSON[domain.QueryInput](r, "/query", h.query)

	swaggerkit.Register(docPaths)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /changesets Changesets changesetsRaw
// @Summary Raw changesets file from the last run
// @Tags Changesets
// @Produce json
// @Success 200 {array} changeset.Flat "ok"
// @Router /changesets [get]
func (h *handlers) raw(r *stdhttp.Request) (any, error) {
	return h.svc.Raw(r.Context())
}

// swagger:route POST /changesets/query Changesets changesetsQuery
// @Summary Filter flat changeset records
// @Tags Changesets
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Filters"
// @Success 200 {array} changeset.Flat "ok"
// @Router /changesets/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Query(r.Context(), in)
}

func docPaths(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	paths["/changesets"] = map[string]any{
		"get": map[string]any{
			"tags":    []any{"Changesets"},
			"summary": "Raw changesets file from the last run",
			"responses": map[string]any{
				"200": map[string]any{"description": "Changeset records as written by the last run"},
			},
		},
	}
	paths["/changesets/query"] = map[string]any{
		"post": map[string]any{
			"tags":    []any{"Changesets"},
			"summary": "Filter flat changeset records by user, city, bbox and date window",
			"requestBody": map[string]any{
				"required": true,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"users": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"city":  map[string]any{"type": "string"},
								"bbox":  map[string]any{"type": "string", "example": "-74.05,40.57,-73.83,40.74"},
								"from":  map[string]any{"type": "string", "format": "date"},
								"to":    map[string]any{"type": "string", "format": "date"},
								"limit": map[string]any{"type": "integer"},
							},
						},
					},
				},
			},
			"responses": map[string]any{
				"200": map[string]any{"description": "Matching flat records ordered by creation time"},
			},
		},
	}
}
