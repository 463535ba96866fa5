package module

import (
	"reflect"

	"osmwatch/internal/modkit"
)

// PortSet is a marker for module defined port sets
// modules should define their own concrete interface types and return them from Ports
type PortSet = any

// PortsOf pulls an interface T out of a module's Ports() bundle without going
// through the registry. The bundle may implement T directly or carry it in an
// exported struct field; ok is false when neither holds
func PortsOf[T any](m modkit.Module) (t T, ok bool) {
	bundle := m.Ports()
	if bundle == nil {
		return t, false
	}
	if v, hit := bundle.(T); hit {
		return v, true
	}
	val := reflect.ValueOf(bundle)
	typ := val.Type()
	// only exported struct fields are considered
	if typ.Kind() == reflect.Struct {
		for i := 0; i < typ.NumField(); i++ {
			f := val.Field(i)
			if !f.CanInterface() {
				continue
			}
			if v, hit := f.Interface().(T); hit {
				return v, true
			}
		}
	}
	return t, false
}

// MustPortsOf is PortsOf for wiring paths where a missing port is a bug
func MustPortsOf[T any](m modkit.Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	panic("module: " + m.Name() + " does not expose the requested port")
}
