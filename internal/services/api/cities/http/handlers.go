// Package http provides http transport for cities
package http

import (
	stdhttp "net/http"

	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/modkit/swaggerkit"
	"osmwatch/internal/services/api/cities/domain"
	svc "osmwatch/internal/services/api/cities/service"
)

// Register mounts cities endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.ClassifyInput](r, "/classify", h.classify)

	swaggerkit.Register(docPaths)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /cities Cities citiesList
// @Summary Configured city boxes with centers
// @Tags Cities
// @Produce json
// @Success 200 {object} map[string]cities.WireEntry "ok"
// @Router /cities [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.Cities(r.Context()), nil
}

// swagger:route POST /cities/classify Cities citiesClassify
// @Summary Classify a lon lat pair into a city label
// @Tags Cities
// @Accept json
// @Produce json
// @Param payload body domain.ClassifyInput true "Point"
// @Success 200 {object} domain.ClassifyOutput "ok"
// @Router /cities/classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.svc.Classify(r.Context(), in), nil
}

func docPaths(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	paths["/cities"] = map[string]any{
		"get": map[string]any{
			"tags":    []any{"Cities"},
			"summary": "Configured city boxes with centers",
			"responses": map[string]any{
				"200": map[string]any{"description": "City name to bounding box and center"},
			},
		},
	}
	paths["/cities/classify"] = map[string]any{
		"post": map[string]any{
			"tags":    []any{"Cities"},
			"summary": "Classify a lon lat pair into a city label",
			"requestBody": map[string]any{
				"required": true,
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"lon": map[string]any{"type": "number"},
								"lat": map[string]any{"type": "number"},
							},
						},
					},
				},
			},
			"responses": map[string]any{
				"200": map[string]any{"description": "Matched city label, Other when nothing matches"},
			},
		},
	}
}
