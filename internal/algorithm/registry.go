package algorithm

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// ID names a digest algorithm.
type ID string

const (
	SHA256     ID = "SHA-256"
	SHA512     ID = "SHA-512"
	MD5        ID = "MD5"
	SHA1       ID = "SHA-1"
	SHA224     ID = "SHA-224"
	SHA384     ID = "SHA-384"
	SHA512_256 ID = "SHA-512/256"
	SHA3_256   ID = "SHA3-256"
	SHA3_512   ID = "SHA3-512"
	BLAKE2b256 ID = "BLAKE2b-256"
	BLAKE2b512 ID = "BLAKE2b-512"
)

var (
	ErrUnsupported = errors.New("unsupported algorithm")
	// ErrConflict is returned when a new id is indistinguishable from a
	// registered one once case and separators are ignored.
	ErrConflict = errors.New("algorithm name conflict")
)

// Factory returns a fresh accumulator. Every call must return a new,
// unshared instance.
type Factory func() (hash.Hash, error)

// Registry maps algorithm ids to accumulator factories. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[ID]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[ID]Factory{}}
}

var defaultRegistry = builtin()

// Default returns the process wide registry holding the built-in algorithms.
func Default() *Registry { return defaultRegistry }

func builtin() *Registry {
	r := NewRegistry()
	lo.Must0(r.Register(SHA256, plain(sha256.New)))
	lo.Must0(r.Register(SHA512, plain(sha512.New)))
	lo.Must0(r.Register(MD5, plain(md5.New)))
	lo.Must0(r.Register(SHA1, plain(sha1.New)))
	lo.Must0(r.Register(SHA224, plain(sha256.New224)))
	lo.Must0(r.Register(SHA384, plain(sha512.New384)))
	lo.Must0(r.Register(SHA512_256, plain(sha512.New512_256)))
	lo.Must0(r.Register(SHA3_256, plain(sha3.New256)))
	lo.Must0(r.Register(SHA3_512, plain(sha3.New512)))
	lo.Must0(r.Register(BLAKE2b256, func() (hash.Hash, error) {
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("init %s: %w", BLAKE2b256, err)
		}
		return h, nil
	}))
	lo.Must0(r.Register(BLAKE2b512, func() (hash.Hash, error) {
		h, err := blake2b.New512(nil)
		if err != nil {
			return nil, fmt.Errorf("init %s: %w", BLAKE2b512, err)
		}
		return h, nil
	}))
	return r
}

func plain[H hash.Hash](fn func() H) Factory {
	return func() (hash.Hash, error) { return fn(), nil }
}

// Register adds or replaces the factory for id. A different id that
// normalizes to the same name as a registered one is rejected with
// ErrConflict.
func (r *Registry) Register(id ID, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := normalize(string(id))
	for existing := range r.factories {
		if existing != id && normalize(string(existing)) == want {
			return fmt.Errorf("%w: %q and %q", ErrConflict, id, existing)
		}
	}
	r.factories[id] = f
	return nil
}

// New returns a fresh accumulator for id.
func (r *Registry) New(id ID) (hash.Hash, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, id)
	}
	return f()
}

// IDs lists the registered ids in ascending order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	ids := lo.Keys(r.factories)
	r.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Lookup resolves a user supplied name such as "sha256", "SHA_256" or
// "sha-256" to a registered id.
func (r *Registry) Lookup(name string) (ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.factories[ID(name)]; ok {
		return ID(name), nil
	}
	want := normalize(name)
	for id := range r.factories {
		if normalize(string(id)) == want {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
}

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(name)))
}
