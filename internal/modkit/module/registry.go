// Package module wires ports between modules: a process wide name registry
// plus typed extraction straight off a module's Ports bundle
package module

import "sync"

// process wide registry for cross wiring ports during bootstrap in main
// Register overwrites on repeat names, which also keeps test mounts cheap
var (
	regMu sync.RWMutex
	reg   = map[string]any{}
)

// Register stores a port set for a module name
func Register(name string, ports any) {
	regMu.Lock()
	reg[name] = ports
	regMu.Unlock()
}

// PortsAs fetches and type asserts a port set for name
func PortsAs[T any](name string) (T, bool) {
	regMu.RLock()
	v, ok := reg[name]
	regMu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Reset clears the registry for tests
func Reset() {
	regMu.Lock()
	reg = map[string]any{}
	regMu.Unlock()
}
