package checksum

import (
	"github.com/cmmoran/checksum/internal/algorithm"
	"github.com/cmmoran/checksum/internal/digest"
)

var (
	ErrUnsupportedAlgorithm = algorithm.ErrUnsupported
	ErrAlgorithmConflict    = algorithm.ErrConflict
)

// IntrospectionError reports a member whose value could not be read.
type IntrospectionError = digest.IntrospectionError

// Error is returned for every failed computation. No partial digest is ever
// returned alongside it.
type Error struct {
	Err error
}

func (e *Error) Error() string { return "checksum computation failed: " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }
