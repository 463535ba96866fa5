package httpkit

import "net/http"

// MountUnder mounts a subrouter at prefix and applies per-scope middlewares.
// Module MountRoutes implementations and the versioned API mount both funnel
// through here so scoping behaves the same everywhere
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
