package runtime

import (
	"errors"
	"fmt"
)

// ErrNotCallable reports a call on a value that is neither a function
// nor a class.
var ErrNotCallable = errors.New("runtime: value is not callable")

// Param is a single parameter of a Function: its name, its optional
// type hint (a class, a tuple of classes, or a forward-reference
// string), and its optional default value.
type Param struct {
	Name    string
	Hint    Object
	Default Object
}

// Function is a callable value. Script functions carry an Impl closure
// built by the evaluator; checker wrappers carry the wrapped function
// plus the synthesized source they were generated from.
type Function struct {
	Name       string
	Module     string // dotted defining-module path, "" for builtins
	Params     []Param
	ReturnHint Object
	Doc        string
	Variadic   bool // accept any arity, bypassing Params-based checks

	Impl func(args []Object) (Object, error)

	// Wrapper metadata. Wrapped is non-nil on checker wrappers;
	// WrapperID and Source identify and reproduce the generated code.
	Wrapped   *Function
	WrapperID string
	Source    string
}

func (f *Function) ClassOf() *Class { return FunClass }
func (f *Function) Inspect() string { return "<fun " + f.QualifiedName() + ">" }

func (f *Function) QualifiedName() string {
	if f.Module == "" {
		return f.Name
	}
	return f.Module + "." + f.Name
}

// IsWrapper reports whether f is a checker wrapper around another
// function.
func (f *Function) IsWrapper() bool { return f.Wrapped != nil }

// Call validates arity, fills omitted defaults, and invokes Impl.
func (f *Function) Call(args []Object) (Object, error) {
	if f.Impl == nil {
		return nil, fmt.Errorf("%s: %w", f.QualifiedName(), ErrNotCallable)
	}
	if f.Variadic {
		return f.Impl(args)
	}
	if len(args) > len(f.Params) {
		return nil, fmt.Errorf("%s() takes at most %d arguments, got %d", f.QualifiedName(), len(f.Params), len(args))
	}
	if len(args) < len(f.Params) {
		filled := make([]Object, 0, len(f.Params))
		filled = append(filled, args...)
		for _, param := range f.Params[len(args):] {
			if param.Default == nil {
				return nil, fmt.Errorf("%s() missing required argument %q", f.QualifiedName(), param.Name)
			}
			filled = append(filled, param.Default)
		}
		args = filled
	}
	return f.Impl(args)
}

// Call invokes a callable object: functions run their implementation,
// classes construct instances.
func Call(obj Object, args []Object) (Object, error) {
	switch v := obj.(type) {
	case *Function:
		return v.Call(args)
	case *Class:
		return v.New(args), nil
	default:
		return nil, fmt.Errorf("%s: %w", obj.Inspect(), ErrNotCallable)
	}
}
