package module

import (
	"fmt"
	"reflect"
)

// PortSet is a marker for module defined port sets
// modules return a struct of exported interface or service fields from Ports
type PortSet = any

// PortsOf pulls T out of a module's Ports without the registry
// it matches the bundle itself first, then each exported field in order
// a pointer to a struct bundle is walked like the struct
func PortsOf[T any](m Module) (t T, ok bool) {
	p := m.Ports()
	if p == nil {
		return t, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return t, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return t, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface {
			if f.IsNil() {
				continue
			}
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return t, false
}

// MustPortsOf is PortsOf for wiring code; a missing port is a programming error
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	var zero T
	panic(fmt.Sprintf("module %s: no port of type %T", m.Name(), &zero))
}
