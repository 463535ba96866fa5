// Package swaggerkit serves the OpenAPI document and lets modules contribute to it
package swaggerkit

import (
	"net/http"
	"sync"

	"osmwatch/internal/core/version"
	"osmwatch/internal/platform/config"
	perr "osmwatch/internal/platform/errors"
	phttp "osmwatch/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecMutator lets modules tweak the spec before it is served
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var (
	mutMu    sync.Mutex
	mutators []SpecMutator
)

// Register adds a spec mutator for the served document
// modules call this from their Register so their routes document themselves
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mutMu.Lock()
	mutators = append(mutators, m)
	mutMu.Unlock()
}

// ResetMutators clears the registry for tests
func ResetMutators() {
	mutMu.Lock()
	mutators = nil
	mutMu.Unlock()
}

// Mount exposes the UI and the assembled document under /api/docs when
// enabled; with enabled false the routes simply do not exist
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	// the UI assets resolve relative to a trailing slash
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON())
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}

// baseSpec is the document skeleton; modules add their paths via mutators
func baseSpec() map[string]any {
	bi := version.Info()
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "osmwatch API",
			"description": "Read endpoints over fetched OSM changeset data",
			"version":     bi.Version,
		},
		"paths": map[string]any{},
	}
}

// serveDocJSON assembles the spec, applies module mutators, then serves it
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := baseSpec()

		// OAS3 base url lives in servers, not BasePath
		ensureServers(spec, "/api/v1")

		cfg := config.New().Prefix("CORE_API_")
		if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		// module paths first so the default responses cover them too
		mutMu.Lock()
		ms := make([]SpecMutator, len(mutators))
		copy(ms, mutators)
		mutMu.Unlock()
		for _, m := range ms {
			m(spec)
		}

		ensureErrorResponseDefinition(spec)
		addDefaultResponse(spec, "500", cannedErrorResponse(http.StatusInternalServerError,
			perr.ErrorCodePanic, "panic recovered", ""))
		addDefaultResponse(spec, "400", cannedErrorResponse(http.StatusBadRequest,
			perr.ErrorCodeValidation, "from does not match the 2006-01-02 format", "from"))

		// the doc reflects whatever mutators ran, so it must not cache
		w.Header().Set("Cache-Control", "no-store")
		phttp.JSON(w, http.StatusOK, spec)
	}
}

// ensureServers makes sure the spec has a servers array
func ensureServers(spec map[string]any, url string) {
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{
			map[string]any{"url": url},
		}
	}
}

// ensureErrorResponseDefinition creates the error envelope model if missing
// kept minimal so it does not drift from the runtime wire
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// cannedErrorResponse builds a documented error response whose example
// matches what the envelope writer actually emits for that code
func cannedErrorResponse(status int, code perr.ErrorCode, msg, field string) map[string]any {
	example := map[string]any{
		"status_code": status,
		"status":      http.StatusText(status),
		"code":        int(code),
		"error":       msg,
		"request_id":  "8c21a6f0d3e7/osm-000001",
	}
	if field != "" {
		example["field"] = field
	}
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}

// addDefaultResponse walks every operation and injects resp under key where
// the module did not document that status itself
func addDefaultResponse(spec map[string]any, key string, resp map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[key]; !exists {
				responses[key] = resp
			}
		}
	}
}
