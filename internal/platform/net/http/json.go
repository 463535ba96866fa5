package http

import (
	"net/http"

	"osmwatch/internal/platform/net/http/bind"
)

// JSONHandler binds and validates the request body as T before fn runs, so
// handlers only ever see inputs that passed the struct tags
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
