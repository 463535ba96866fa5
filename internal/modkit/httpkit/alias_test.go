package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "osmwatch/internal/platform/errors"
)

func serveKit(t *testing.T, h Handler, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/changesets/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	var env Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestCall_AdaptsReturnStyles(t *testing.T) {
	cases := []struct {
		name     string
		fn       func(*http.Request) (any, error)
		wantCode int
		wantBody string
	}{
		{
			name:     "plain value wraps as ok",
			fn:       func(*http.Request) (any, error) { return map[string]any{"cities": 5}, nil },
			wantCode: http.StatusOK,
			wantBody: "cities",
		},
		{
			name: "response passes through untouched",
			fn: func(*http.Request) (any, error) {
				// the style the readiness probe uses to answer 503
				return Response{Status: http.StatusServiceUnavailable, Body: map[string]any{"status": "fail"}}, nil
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "fail",
		},
		{
			name:     "error maps through the wire form",
			fn:       func(*http.Request) (any, error) { return nil, perr.Unavailablef("clickhouse down") },
			wantCode: http.StatusServiceUnavailable,
			wantBody: "clickhouse down",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := serveKit(t, Call(tc.fn), "")
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("expected body to mention %q, got %q", tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestGet_MountsUnderGet(t *testing.T) {
	r := &recordingRouter{}
	Get(r, "/weekly", func(*http.Request) (any, error) { return "counts", nil })

	if len(r.routes) != 1 || r.routes[0] != "GET /weekly" {
		t.Fatalf("routes = %v", r.routes)
	}

	rec, env := serveKit(t, r.last, "")
	if rec.Code != http.StatusOK || env.Data != "counts" {
		t.Fatalf("served %d %+v", rec.Code, env)
	}
}

func TestPostJSON_BindsBeforeTheHandler(t *testing.T) {
	type queryIn struct {
		User string `json:"user"`
	}

	var got queryIn
	r := &recordingRouter{}
	PostJSON[queryIn](r, "/query", func(_ *http.Request, in queryIn) (any, error) {
		got = in
		if in.User == "Waltuh" {
			return nil, perr.NotFoundf("user Waltuh has no changesets")
		}
		return map[string]any{"user": in.User, "total": 3}, nil
	})

	if len(r.routes) != 1 || r.routes[0] != "POST /query" {
		t.Fatalf("routes = %v", r.routes)
	}

	cases := []struct {
		name        string
		body        string
		wantCode    int
		wantInBody  string
		wantReached string
	}{
		{
			name:       "malformed body answers 400",
			body:       `{`,
			wantCode:   http.StatusBadRequest,
			wantInBody: "invalid JSON",
		},
		{
			name:       "unknown field is rejected",
			body:       `{"user":"haycam","editor":"iD"}`,
			wantCode:   http.StatusBadRequest,
			wantInBody: "editor",
		},
		{
			name:        "decoded value reaches the handler",
			body:        `{"user":"o_paq"}`,
			wantCode:    http.StatusOK,
			wantInBody:  "o_paq",
			wantReached: "o_paq",
		},
		{
			name:        "handler error surfaces with its status",
			body:        `{"user":"Waltuh"}`,
			wantCode:    http.StatusNotFound,
			wantInBody:  "Waltuh",
			wantReached: "Waltuh",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got = queryIn{}
			rec, _ := serveKit(t, r.last, tc.body)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tc.wantCode, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.wantInBody) {
				t.Fatalf("expected body to mention %q, got %q", tc.wantInBody, rec.Body.String())
			}
			if got.User != tc.wantReached {
				t.Fatalf("handler saw %q, want %q", got.User, tc.wantReached)
			}
		})
	}
}

func TestRegisterValidation_TagGuardsTheBody(t *testing.T) {
	if err := RegisterValidation("evenonly", func(fl FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}); err != nil {
		t.Fatalf("RegisterValidation: %v", err)
	}

	type scanIn struct {
		Shards int `json:"shards" validate:"evenonly"`
	}

	r := &recordingRouter{}
	PostJSON[scanIn](r, "/scan", func(_ *http.Request, in scanIn) (any, error) {
		return map[string]int{"shards": in.Shards}, nil
	})

	rec, env := serveKit(t, r.last, `{"shards":3}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("odd shard count should fail validation, got %d", rec.Code)
	}
	if env.Field != "shards" {
		t.Fatalf("field = %q, want shards", env.Field)
	}

	if rec, _ := serveKit(t, r.last, `{"shards":4}`); rec.Code != http.StatusOK {
		t.Fatalf("even shard count should pass, got %d", rec.Code)
	}
}
