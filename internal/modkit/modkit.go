package modkit

import (
	phttp "osmwatch/internal/platform/net/http"
)

// Module is what the api service mounts: routes plus an optional port set
// other modules can pull through the registry. Kept to three methods so
// modules only couple through ports, never through each other's packages
type Module interface {
	// MountRoutes attaches the module's endpoints to the shared router
	MountRoutes(r phttp.Router)
	// Ports exposes the module's cross wiring surface, nil when it has none
	Ports() any
	// Name identifies the module in logs and the registry
	Name() string
}

// Builder is the constructor shape every module's New follows,
// asserted per module with a compile time check
type Builder func(Deps, ...Option) Module
