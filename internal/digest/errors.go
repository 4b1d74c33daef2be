package digest

import (
	"fmt"
	"reflect"
)

// IntrospectionError reports a member that could not be read.
type IntrospectionError struct {
	Path string
	Type reflect.Type
	Err  error
}

func (e *IntrospectionError) Error() string {
	where := e.Path
	if where == "" {
		where = "<root>"
	}
	return fmt.Sprintf("introspect %s (%v): %v", where, e.Type, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }
