package checksum

import (
	"reflect"

	"github.com/go-logr/logr"

	"github.com/cmmoran/checksum/internal/digest"
)

type config struct {
	exclude      func(string) bool
	markRevisits bool
	logger       logr.Logger
	scalars      digest.Scalars
}

// Option configures a single computation.
type Option func(*config)

// WithExclude drops every member, map entry or element whose dotted path
// (for example "departments.ENG_01.budget") satisfies fn.
func WithExclude(fn func(path string) bool) Option {
	return func(c *config) { c.exclude = fn }
}

// WithCycleMarker writes a fixed marker where an already entered reference
// is met again, so that differently shaped cycles hash differently.
func WithCycleMarker() Option {
	return func(c *config) { c.markRevisits = true }
}

func WithLogger(l logr.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithScalar hashes values of type t by the text returned from fn instead
// of by their members.
func WithScalar(t reflect.Type, fn func(v any) string) Option {
	return func(c *config) {
		if c.scalars == nil {
			c.scalars = digest.DefaultScalars()
		}
		c.scalars[t] = func(v reflect.Value) string { return fn(v.Interface()) }
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: logr.Discard()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *config) walker() *digest.Walker {
	return digest.New(digest.Options{
		Scalars:      c.scalars,
		Exclude:      c.exclude,
		MarkRevisits: c.markRevisits,
		Logger:       c.logger,
	})
}
