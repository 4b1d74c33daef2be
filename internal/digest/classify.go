package digest

import (
	"maps"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is the shape category of a node.
type Kind uint8

const (
	Nil Kind = iota
	Scalar
	Sequence
	Mapping
	Composite
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Scalar:
		return "scalar"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	case Composite:
		return "composite"
	}
	return "unknown"
}

// ScalarFunc renders a value of a registered scalar type as its canonical
// text. The value is always addressable.
type ScalarFunc func(v reflect.Value) string

// Scalars maps struct-backed or array-backed types that should be hashed by
// their textual form rather than by their members.
type Scalars map[reflect.Type]ScalarFunc

var defaultScalars = Scalars{
	reflect.TypeFor[big.Int](): func(v reflect.Value) string {
		return v.Addr().Interface().(*big.Int).String()
	},
	reflect.TypeFor[big.Float](): func(v reflect.Value) string {
		return v.Addr().Interface().(*big.Float).Text('g', -1)
	},
	reflect.TypeFor[big.Rat](): func(v reflect.Value) string {
		return v.Addr().Interface().(*big.Rat).RatString()
	},
	reflect.TypeFor[decimal.Decimal](): func(v reflect.Value) string {
		return v.Interface().(decimal.Decimal).String()
	},
	reflect.TypeFor[uuid.UUID](): func(v reflect.Value) string {
		return v.Interface().(uuid.UUID).String()
	},
	reflect.TypeFor[time.Time](): func(v reflect.Value) string {
		return v.Interface().(time.Time).UTC().Format(time.RFC3339Nano)
	},
}

// DefaultScalars returns the arbitrary precision, identifier and time types
// treated as scalars out of the box. The result may be extended freely.
func DefaultScalars() Scalars {
	return maps.Clone(defaultScalars)
}

// Classify reports the category of v using the default scalar set.
// Pointers and interfaces are looked through.
func Classify(v reflect.Value) Kind {
	return defaultScalars.Classify(v)
}

// Classify reports the category of v, consulting s before falling back to
// the value's kind.
func (s Scalars) Classify(v reflect.Value) Kind {
	for {
		if !v.IsValid() {
			return Nil
		}
		if _, ok := s[v.Type()]; ok {
			return Scalar
		}
		if k := v.Kind(); k != reflect.Pointer && k != reflect.Interface {
			break
		}
		if v.IsNil() {
			return Nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return Scalar
	case reflect.Slice:
		if v.IsNil() {
			return Nil
		}
		return Sequence
	case reflect.Array:
		return Sequence
	case reflect.Map:
		if v.IsNil() {
			return Nil
		}
		return Mapping
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return Nil
		}
	}
	return Composite
}
