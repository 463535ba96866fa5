// Package module wires changesets into the API using modkit
package module

import (
	"net/http"

	"osmwatch/internal/adapters/datadir"
	modkit "osmwatch/internal/modkit"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/platform/logger"
	str "osmwatch/internal/platform/strings"
	chhttp "osmwatch/internal/services/api/changesets/http"
	chrepo "osmwatch/internal/services/api/changesets/repo"
	chsvc "osmwatch/internal/services/api/changesets/service"
)

// Module implements the changesets module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc chsvc.Service
}

// New constructs the changesets module
// the data directory comes from CORE_DATA_DIR like the batch runs
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("changesets"),
		modkit.WithPrefix("/changesets"),
	}, opts...)...)

	core := deps.Cfg.Prefix("CORE_")
	dir, err := datadir.New(core.MayString("DATA_DIR", "data"))
	if err != nil {
		logger.Get().Panic().Err(err).Msg("changesets module requires a usable data dir")
	}
	svc := chsvc.New(chrepo.NewFiles(dir))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptDatasetPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		chhttp.Register(r, m.svc)
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
