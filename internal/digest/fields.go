package digest

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/samber/lo"
)

// TagName is the struct tag consulted for exclusion: `checksum:"-"`.
const TagName = "checksum"

// Field describes one member of a type that lists its own members.
type Field struct {
	Name     string
	Value    any
	Excluded bool
}

// Describer is implemented by types that enumerate their members
// explicitly instead of having them discovered through reflection.
type Describer interface {
	ChecksumFields() ([]Field, error)
}

// Slot is one member of a composite value.
type Slot struct {
	Name     string
	Excluded bool
	Value    reflect.Value

	depth int
	index int
}

// Fields returns every member slot of v, including those promoted from
// embedded structs, sorted by name.
func Fields(v reflect.Value) ([]Slot, error) {
	return defaultScalars.Fields(v)
}

// DeclaredFields returns the member slots of v in declaration order.
func DeclaredFields(v reflect.Value) ([]Slot, error) {
	return defaultScalars.DeclaredFields(v)
}

// Fields is like the package level Fields but keeps embedded types that are
// registered in s as single scalar slots.
func (s Scalars) Fields(v reflect.Value) ([]Slot, error) {
	slots, err := s.DeclaredFields(v)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(slots, func(a, b Slot) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.depth, b.depth),
			cmp.Compare(a.index, b.index),
		)
	})
	return slots, nil
}

// DeclaredFields lists outer struct members first, then each embedded
// struct depth first.
func (s Scalars) DeclaredFields(v reflect.Value) ([]Slot, error) {
	v = settle(v)
	if d, ok := describerOf(v); ok {
		fields, err := d.ChecksumFields()
		if err != nil {
			return nil, &IntrospectionError{Type: v.Type(), Err: err}
		}
		return lo.Map(fields, func(f Field, i int) Slot {
			return Slot{Name: f.Name, Excluded: f.Excluded, Value: reflect.ValueOf(f.Value), index: i}
		}), nil
	}
	if v.Kind() != reflect.Struct {
		return nil, &IntrospectionError{Type: v.Type(), Err: fmt.Errorf("%s values have no readable members", v.Kind())}
	}
	var out []Slot
	s.walkStruct(v, 0, false, map[uintptr]struct{}{}, &out)
	return out, nil
}

func (s Scalars) walkStruct(v reflect.Value, depth int, excluded bool, seen map[uintptr]struct{}, out *[]Slot) {
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		fv := open(v.Field(i))
		skip := excluded || sf.Tag.Get(TagName) == "-"
		if sf.Anonymous && s.flattens(sf.Type) {
			// the embedded struct is flattened into its members, like an
			// ancestor's fields; it never appears as a slot of its own
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				if _, ok := seen[ev.Pointer()]; ok {
					continue
				}
				seen[ev.Pointer()] = struct{}{}
				ev = open(ev.Elem())
			}
			s.walkStruct(ev, depth+1, skip, seen, out)
			continue
		}
		*out = append(*out, Slot{Name: sf.Name, Excluded: skip, Value: fv, depth: depth, index: i})
	}
}

func (s Scalars) flattens(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	_, scalar := s[t]
	return t.Kind() == reflect.Struct && !scalar
}

func describerOf(v reflect.Value) (Describer, bool) {
	if v.CanInterface() {
		if d, ok := v.Interface().(Describer); ok {
			return d, true
		}
	}
	if v.CanAddr() {
		if p := v.Addr(); p.CanInterface() {
			if d, ok := p.Interface().(Describer); ok {
				return d, true
			}
		}
	}
	return nil, false
}
