// Package api provides the HTTP API over the fetched outputs
package api

import (
	"osmwatch/internal/platform/config"
	"osmwatch/internal/platform/logger"
	phttp "osmwatch/internal/platform/net/http"
	"osmwatch/internal/platform/net/middleware"
	"osmwatch/internal/platform/store"

	"osmwatch/internal/modkit"
	"osmwatch/internal/modkit/httpkit"
	"osmwatch/internal/modkit/module"
	"osmwatch/internal/modkit/swaggerkit"

	chdomain "osmwatch/internal/services/api/changesets/domain"
	changesetsmod "osmwatch/internal/services/api/changesets/module"
	citiesmod "osmwatch/internal/services/api/cities/module"
	metamod "osmwatch/internal/services/api/meta/module"
	statsmod "osmwatch/internal/services/api/stats/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	// the changesets module owns the dataset reads; stats consumes its port
	changesets := changesetsmod.New(deps)
	ds := module.MustPortsOf[chdomain.DatasetPort](changesets)

	mods := []modkit.Module{
		metamod.New(deps),
		changesets,
		citiesmod.New(deps),
		statsmod.New(deps, modkit.WithPorts(statsmod.Ports{Dataset: ds})),
	}

	// root level liveness for load balancers; modules get the richer /meta routes
	r.Use(middleware.Heartbeat("/health"))

	// versioned API with a common middleware stack
	origins := opt.Config.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil)
	httpkit.MountAPIV1(r, httpkit.CommonStack(origins...), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
