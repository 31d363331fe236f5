package evaluator

import (
	"sync"

	"github.com/jpetrucciani/beartype/internal/runtime"
)

// NewEnvironment returns an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]runtime.Object)}
}

// NewModuleEnvironment returns a top-level environment whose bindings
// belong to the named module. Functions and classes defined under it carry
// the module path in their qualified names.
func NewModuleEnvironment(module string) *Environment {
	env := NewEnvironment()
	env.module = module
	return env
}

// NewEnclosedEnvironment returns an environment chained to outer, sharing
// its module identity.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.module = outer.module
	}
	return env
}

// NewChildEnvironment returns an environment chained to outer but owning
// its own module identity. Module scopes layer over the shared builtin
// scope this way.
func NewChildEnvironment(module string, outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	env.module = module
	return env
}

type Environment struct {
	mu     sync.RWMutex
	store  map[string]runtime.Object
	outer  *Environment
	module string
}

// Module returns the dotted module path this environment evaluates inside,
// or "" for anonymous scopes.
func (e *Environment) Module() string { return e.module }

func (e *Environment) Get(name string) (runtime.Object, bool) {
	e.mu.RLock()
	obj, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

func (e *Environment) Set(name string, val runtime.Object) runtime.Object {
	e.mu.Lock()
	e.store[name] = val
	e.mu.Unlock()
	return val
}

// Update rebinds an existing name, walking outward to the scope that
// defined it. It reports false when no scope knows the name.
func (e *Environment) Update(name string, val runtime.Object) bool {
	e.mu.Lock()
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		e.mu.Unlock()
		return true
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Update(name, val)
	}
	return false
}

// GetStore returns a copy of the local bindings (exported for module
// materialization).
func (e *Environment) GetStore() map[string]runtime.Object {
	e.mu.RLock()
	defer e.mu.RUnlock()
	store := make(map[string]runtime.Object, len(e.store))
	for k, v := range e.store {
		store[k] = v
	}
	return store
}
