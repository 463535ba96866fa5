// Package module wires stats into the API using modkit
package module

import (
	"net/http"

	"osmwatch/internal/core/roster"
	modkit "osmwatch/internal/modkit"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/platform/logger"
	str "osmwatch/internal/platform/strings"
	chdomain "osmwatch/internal/services/api/changesets/domain"
	statshttp "osmwatch/internal/services/api/stats/http"
	statssvc "osmwatch/internal/services/api/stats/service"
)

// Module implements the stats module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc statssvc.Service
}

// Ports declares the injected dataset port this module requires
type Ports struct {
	Dataset chdomain.DatasetPort
}

// New constructs the stats module
// the dataset port comes from the changesets module via WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("stats"),
		modkit.WithPrefix("/stats"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Dataset == nil {
		panic("stats module requires the changesets dataset port")
	}

	core := deps.Cfg.Prefix("CORE_")
	users, err := roster.Resolve(core.MayCSV("USERS", nil), core.MayString("USERS_FILE", ""))
	if err != nil {
		logger.Get().Panic().Err(err).Msg("stats module requires a loadable roster")
	}
	svc := statssvc.New(injected.Dataset, len(users))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptStatsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		statshttp.Register(r, m.svc)
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
