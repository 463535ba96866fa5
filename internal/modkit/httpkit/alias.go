// Package httpkit is the routing vocabulary modules use instead of importing
// internal/platform/net/http directly: the router seam, the envelope adapters,
// and the common middleware stack
package httpkit

import (
	"net/http"

	phttp "osmwatch/internal/platform/net/http"
	"osmwatch/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response lets a handler pick its own status, the readiness probe
	// answering 503 for instance
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router

	// FieldLevel is the value surface a custom validation tag inspects
	FieldLevel = bind.FieldLevel
)

// RegisterValidation registers a custom body validation tag
// registering the same tag twice overwrites the earlier func
func RegisterValidation(tag string, fn func(FieldLevel) bool) error {
	return bind.RegisterValidation(tag, fn)
}

// Call adapts a bodyless handler to the envelope form. A returned Response
// passes through untouched so handlers can control status and headers
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Get registers a bodyless handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON registers a handler whose body is bound and validated as T
// before it runs
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}
