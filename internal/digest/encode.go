package digest

import (
	"reflect"
	"strconv"
	"unsafe"
)

// revisitMarker is written in place of a reference that was already entered
// when Options.MarkRevisits is set.
const revisitMarker = "<cycle>"

// Text returns the canonical text of a scalar value. Pointers and
// interfaces are followed; ok is false for anything that is not a scalar.
func (s Scalars) Text(v reflect.Value) (text string, ok bool) {
	for v.IsValid() {
		if fn, found := s[v.Type()]; found {
			return fn(settle(v)), true
		}
		switch v.Kind() {
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return "", false
			}
			v = v.Elem()
			continue
		}
		return basicText(v)
	}
	return "", false
}

func basicText(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.String:
		return v.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), true
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64), true
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128), true
	}
	return "", false
}

// open returns a view of v that can be passed to Interface and Set even when
// v was reached through an unexported field.
func open(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// settle returns an addressable, fully readable view of v. Map values and
// interface payloads are copied into fresh storage.
func settle(v reflect.Value) reflect.Value {
	v = open(v)
	if v.CanAddr() || !v.CanInterface() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}
