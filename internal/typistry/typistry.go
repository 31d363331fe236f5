// Package typistry maintains the process-wide registry of type hints
// referenced by generated wrapper functions.
//
// Wrappers produced at decoration time do not embed class objects directly.
// Instead each hint is registered here under a stable string key, and the
// generated source refers to the hint as an indexed lookup on a well-known
// parameter (see StoreParamName). Classes register under their qualified
// name, tuples under a synthesized content-hash key, and forward references
// under their dotted path without any eager import: resolution happens on
// the first lookup miss, which may be long after decoration.
package typistry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jpetrucciani/beartype/internal/hint"
	"github.com/jpetrucciani/beartype/internal/runtime"
	"github.com/jpetrucciani/beartype/internal/utils"
)

const (
	// StoreParamName is the hidden parameter through which generated
	// wrappers receive the registry store.
	StoreParamName = "__beartypistry"

	// tupleKeyPrefix starts every synthesized tuple key. The character is
	// not valid in identifiers, so tuple keys can never shadow a class key.
	tupleKeyPrefix = "+"

	// collisionMarker is appended to a tuple key, repeatedly if necessary,
	// when the hashed key is already taken by a different tuple.
	collisionMarker = "~"
)

// FragmentFor renders the code fragment a generated wrapper uses to fetch
// the hint registered under key.
func FragmentFor(key string) string {
	return StoreParamName + "[" + strconv.Quote(key) + "]"
}

// Importer resolves a dotted attribute path such as "pkg.mod.Class" to the
// object it names, importing the owning module on demand. Implementations
// wrap ErrNotFound for missing modules or attributes; any other error is
// treated as an import-time failure and surfaces unchanged.
type Importer interface {
	ImportAttr(name string) (runtime.Object, error)
}

// Registry is the hint store. A single Registry lives for the whole
// interpreter session; entries are inserted once and never removed or
// overwritten. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	store map[string]runtime.Object

	typeMemo  map[*runtime.Class]string
	tupleMemo map[string]string
	refMemo   map[string]string

	importer Importer
	hashFn   func(ids []string) uint64
	logger   *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithTupleHash replaces the tuple content hash. The function receives the
// sorted, deduplicated identities of the tuple elements. Tests inject
// colliding hashes through this hook.
func WithTupleHash(fn func(ids []string) uint64) Option {
	return func(r *Registry) { r.hashFn = fn }
}

// NewRegistry returns an empty registry. importer may be nil, in which case
// forward references fail to resolve with ErrUnresolvable.
func NewRegistry(importer Importer, opts ...Option) *Registry {
	r := &Registry{
		store:     make(map[string]runtime.Object),
		typeMemo:  make(map[*runtime.Class]string),
		tupleMemo: make(map[string]string),
		refMemo:   make(map[string]string),
		importer:  importer,
		hashFn:    defaultTupleHash,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len reports the number of stored entries. Memoized fragments for builtins
// and forward references do not occupy entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}

// TryGet returns the entry stored under key without triggering forward
// reference resolution.
func (r *Registry) TryGet(key string) (runtime.Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.store[key]
	return obj, ok
}

// Set inserts an entry, enforcing the store invariants: keys are nonempty
// and never reused, classes live under their own qualified name (or a
// builtin short name), and tuples live under prefixed keys and contain only
// plain classes. Registrars and Resolve funnel every insertion through
// here.
func (r *Registry) Set(key string, value runtime.Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setLocked(key, value)
}

func (r *Registry) setLocked(key string, value runtime.Object) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidName)
	}
	if _, dup := r.store[key]; dup {
		return fmt.Errorf("%w: %q", ErrKeyCollision, key)
	}
	switch v := value.(type) {
	case *runtime.Class:
		if _, err := hint.SimpleClass(v); err != nil {
			return err
		}
		if key != v.QualifiedName() && !runtime.IsBuiltinName(key) {
			return fmt.Errorf("%w: key %q does not name class %s", ErrInvalidName, key, v.QualifiedName())
		}
	case *runtime.Tuple:
		if !strings.HasPrefix(key, tupleKeyPrefix) {
			return fmt.Errorf("%w: tuple key %q lacks prefix %q", ErrInvalidName, key, tupleKeyPrefix)
		}
		if _, err := hint.SimpleTuple(v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s is not registrable", hint.ErrInvalid, value.Inspect())
	}
	r.store[key] = value
	r.logger.Debug("typistry: stored entry", zap.String("key", key))
	return nil
}

// Resolve returns the entry stored under key, resolving it as a forward
// reference on a miss: the dotted path is imported through the configured
// Importer, verified to name a class, stored, and returned. Missing modules
// or attributes and non-class resolutions yield ErrUnresolvable; errors
// raised by the imported module itself propagate verbatim. Each distinct
// reference resolves at most once.
func (r *Registry) Resolve(key string) (runtime.Object, error) {
	r.mu.RLock()
	obj, ok := r.store[key]
	r.mu.RUnlock()
	if ok {
		return obj, nil
	}

	if !utils.IsDottedIdentifier(key) {
		return nil, fmt.Errorf("%w: %q is not an importable attribute path", ErrUnresolvable, key)
	}
	if r.importer == nil {
		return nil, fmt.Errorf("%w: %q (no importer configured)", ErrUnresolvable, key)
	}

	resolved, err := r.importer.ImportAttr(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnresolvable, err)
		}
		return nil, err
	}
	cls, ok := resolved.(*runtime.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %q names %s, not a class", ErrUnresolvable, key, resolved.Inspect())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if obj, ok := r.store[key]; ok {
		return obj, nil
	}
	if err := r.setLocked(key, cls); err != nil {
		return nil, err
	}
	r.logger.Debug("typistry: resolved forward reference", zap.String("key", key))
	return cls, nil
}
