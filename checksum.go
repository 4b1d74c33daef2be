// Package checksum computes deterministic content digests of in-memory
// value graphs.
//
// Values are walked in a canonical order: struct members (including those
// promoted from embedded structs) sorted by name, map entries sorted by key,
// slices and arrays in index order. Every reference is entered at most once
// per call, so cyclic graphs terminate. Members tagged `checksum:"-"` never
// influence the digest.
package checksum

import (
	"bytes"
	"hash"

	"github.com/cmmoran/checksum/internal/algorithm"
	"github.com/cmmoran/checksum/internal/digest"
	"github.com/cmmoran/checksum/internal/util"
)

// Algorithm selects the digest primitive.
type Algorithm = algorithm.ID

const (
	SHA256     = algorithm.SHA256
	SHA512     = algorithm.SHA512
	MD5        = algorithm.MD5
	SHA1       = algorithm.SHA1
	SHA224     = algorithm.SHA224
	SHA384     = algorithm.SHA384
	SHA512_256 = algorithm.SHA512_256
	SHA3_256   = algorithm.SHA3_256
	SHA3_512   = algorithm.SHA3_512
	BLAKE2b256 = algorithm.BLAKE2b256
	BLAKE2b512 = algorithm.BLAKE2b512
)

// Field and Describer let a type list its members explicitly.
type (
	Field     = digest.Field
	Describer = digest.Describer
)

// Hash returns the lowercase hex digest of v.
func Hash(v any, alg Algorithm, opts ...Option) (string, error) {
	h, err := compute(v, alg, opts)
	if err != nil {
		return "", err
	}
	return util.Fingerprint(h), nil
}

// Sum returns the raw digest bytes of v.
func Sum(v any, alg Algorithm, opts ...Option) ([]byte, error) {
	h, err := compute(v, alg, opts)
	if err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func compute(v any, alg Algorithm, opts []Option) (hash.Hash, error) {
	h, err := algorithm.Default().New(alg)
	if err != nil {
		return nil, &Error{Err: err}
	}
	c := newConfig(opts)
	if err := c.walker().Walk(h, v); err != nil {
		return nil, &Error{Err: err}
	}
	c.logger.V(1).Info("checksum computed", "algorithm", alg, "size", h.Size())
	return h, nil
}

// Write feeds the canonical stream of v into h without finalizing it.
func Write(h hash.Hash, v any, opts ...Option) error {
	if err := newConfig(opts).walker().Walk(h, v); err != nil {
		return &Error{Err: err}
	}
	return nil
}

// Canonical returns the exact byte stream that Hash feeds to the digest.
func Canonical(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := newConfig(opts).walker().Walk(&buf, v); err != nil {
		return nil, &Error{Err: err}
	}
	return buf.Bytes(), nil
}

func SHA256Hex(v any) (string, error) { return Hash(v, SHA256) }
func SHA512Hex(v any) (string, error) { return Hash(v, SHA512) }
func MD5Hex(v any) (string, error)    { return Hash(v, MD5) }

// MustHash is like Hash but panics on error.
func MustHash(v any, alg Algorithm, opts ...Option) string {
	s, err := Hash(v, alg, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseAlgorithm resolves names such as "sha256" or "SHA-256".
func ParseAlgorithm(name string) (Algorithm, error) {
	return algorithm.Default().Lookup(name)
}

// Algorithms lists the registered algorithms.
func Algorithms() []Algorithm {
	return algorithm.Default().IDs()
}

// Register makes a further digest primitive available under id. Ids that
// differ from a registered one only in case or separators are rejected.
func Register(id Algorithm, newHash func() hash.Hash) error {
	return algorithm.Default().Register(id, func() (hash.Hash, error) { return newHash(), nil })
}
