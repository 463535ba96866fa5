package swaggerkit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	perr "osmwatch/internal/platform/errors"
)

func TestServeDocJSON_AppliesMutatorsAndDefaults(t *testing.T) {
	ResetMutators()
	t.Cleanup(ResetMutators)

	Register(func(spec map[string]any) {
		paths := spec["paths"].(map[string]any)
		paths["/changesets"] = map[string]any{
			"get": map[string]any{
				"summary": "List fetched changesets",
				"responses": map[string]any{
					"200": map[string]any{"description": "OK"},
				},
			},
		}
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/docs/doc.json", nil)
	serveDocJSON()(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}

	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("served spec is not valid JSON: %v", err)
	}

	if v, _ := spec["openapi"].(string); v != "3.0.3" {
		t.Fatalf("unexpected openapi version %q", v)
	}

	servers, ok := spec["servers"].([]any)
	if !ok || len(servers) == 0 {
		t.Fatal("expected a servers array")
	}

	paths := spec["paths"].(map[string]any)
	op := paths["/changesets"].(map[string]any)["get"].(map[string]any)
	resps := op["responses"].(map[string]any)
	for _, code := range []string{"200", "400", "500"} {
		if _, ok := resps[code]; !ok {
			t.Fatalf("expected a %s response on the mutated path", code)
		}
	}

	// the injected 400 documents the binder's real output shape
	br := resps["400"].(map[string]any)
	example := br["content"].(map[string]any)["application/json"].(map[string]any)["example"].(map[string]any)
	if example["code"] != float64(perr.ErrorCodeValidation) {
		t.Fatalf("400 example code = %v", example["code"])
	}
	if example["field"] != "from" {
		t.Fatalf("400 example field = %v", example["field"])
	}

	comps := spec["components"].(map[string]any)
	schemas := comps["schemas"].(map[string]any)
	errSchema, ok := schemas["ErrorResponse"].(map[string]any)
	if !ok {
		t.Fatal("expected the ErrorResponse schema")
	}
	if _, ok := errSchema["properties"].(map[string]any)["field"]; !ok {
		t.Fatal("ErrorResponse schema should document the field property")
	}
}

func TestRegister_IgnoresNil(t *testing.T) {
	ResetMutators()
	t.Cleanup(ResetMutators)

	Register(nil)

	mutMu.Lock()
	n := len(mutators)
	mutMu.Unlock()
	if n != 0 {
		t.Fatalf("expected empty registry got %d", n)
	}
}
