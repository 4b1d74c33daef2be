package digest

import (
	"maps"
	"reflect"
)

// ref identifies a reference by where it points, never by what it holds.
// Slices also carry their length: two slices over the same backing array
// are different references when their lengths differ.
type ref struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// guard is the per-call set of references already entered. Entries are
// never removed.
type guard map[ref]struct{}

// refOf returns the identity of v. Values without identity (inline structs
// and arrays) cannot close a cycle on their own and report ok == false.
// Pointers to and slices of zero-size types are not guarded either: distinct
// zero-size allocations may share one address, and such values hold no
// references that could close a cycle.
func refOf(v reflect.Value) (r ref, ok bool) {
	switch v.Kind() {
	case reflect.Map:
		return ref{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Pointer:
		if v.Type().Elem().Size() == 0 {
			return ref{}, false
		}
		return ref{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Slice:
		if v.Len() == 0 || v.Type().Elem().Size() == 0 {
			return ref{}, false
		}
		return ref{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}, true
	}
	return ref{}, false
}

// enter records v and reports whether it had been entered before.
func (g guard) enter(v reflect.Value) (seen bool) {
	r, ok := refOf(v)
	if !ok {
		return false
	}
	if _, seen = g[r]; seen {
		return true
	}
	g[r] = struct{}{}
	return false
}

func (g guard) clone() guard {
	return maps.Clone(g)
}
