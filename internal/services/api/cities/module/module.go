// Package module wires cities into the API using modkit
package module

import (
	"net/http"

	"osmwatch/internal/core/cities"
	modkit "osmwatch/internal/modkit"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/platform/logger"
	str "osmwatch/internal/platform/strings"
	cityhttp "osmwatch/internal/services/api/cities/http"
	citysvc "osmwatch/internal/services/api/cities/service"
)

// Module implements the cities module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc citysvc.Service
}

var _ modkit.Builder = New

// New constructs the cities module
// the table comes from CORE_CITIES_FILE, falling back to the built in set
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("cities"),
		modkit.WithPrefix("/cities"),
	}, opts...)...)

	core := deps.Cfg.Prefix("CORE_")
	table, err := cities.Resolve(core.MayString("CITIES_FILE", ""))
	if err != nil {
		logger.Get().Panic().Err(err).Msg("cities module requires a loadable city table")
	}
	svc := citysvc.New(table)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptCitiesPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		cityhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
