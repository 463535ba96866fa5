package modkit

import (
	"net/http"

	"osmwatch/internal/modkit/httpkit"
)

// Option tweaks one field of the module build config
type Option func(*buildCfg)

// WithName sets the registry and log name for the module
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts the module under a path prefix, "/changesets" style
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares appends per module middleware. Repeated options
// accumulate in call order rather than replacing earlier ones
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts stores the port set another module will fetch through the
// registry. The concrete type belongs to the consuming side
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithSwagger turns the per module swagger mount on or off
func WithSwagger(enabled bool) Option {
	return func(c *buildCfg) { c.swaggerOn = enabled }
}

// WithSubrouter swaps in a custom subrouter factory, mostly for tests
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(c *buildCfg) { c.subrouter = fn }
}

// WithRegister sets the endpoint registration hook the module runs at mount
func WithRegister(fn func(httpkit.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}
