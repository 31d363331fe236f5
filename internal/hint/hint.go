// Package hint classifies annotation values into the shapes the
// checking engine accepts: plain classes, tuple unions, and
// forward-reference strings. Generic classes and anything else are
// rejected up front so the registry and the wrappers only ever see
// checkable hints.
package hint

import (
	"errors"
	"fmt"

	"github.com/jpetrucciani/beartype/internal/runtime"
	"github.com/jpetrucciani/beartype/internal/utils"
)

// ErrInvalid reports a value that is not usable as a type hint.
var ErrInvalid = errors.New("invalid type hint")

// Kind is the checkable shape of a hint.
type Kind int

const (
	KindInvalid Kind = iota
	KindClass
	KindTuple
	KindForwardRef
)

// Classify returns the shape of h without validating it. Callers
// dispatch on the Kind and then validate with the shape-specific
// helpers.
func Classify(h runtime.Object) Kind {
	switch h.(type) {
	case *runtime.Class:
		return KindClass
	case *runtime.Tuple:
		return KindTuple
	case *runtime.Str:
		return KindForwardRef
	default:
		return KindInvalid
	}
}

// SimpleClass validates that h is a plain, non-generic class and
// returns it. Generic classes need richer checking semantics than an
// instance test and are rejected.
func SimpleClass(h runtime.Object) (*runtime.Class, error) {
	cls, ok := h.(*runtime.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a class", ErrInvalid, h.Inspect())
	}
	if cls.IsGeneric() {
		return nil, fmt.Errorf("%w: %s is generic", ErrInvalid, cls.QualifiedName())
	}
	return cls, nil
}

// SimpleTuple validates that h is a tuple whose every element is a
// plain class, the only tuple shape the registry stores.
func SimpleTuple(h runtime.Object) (*runtime.Tuple, error) {
	tup, ok := h.(*runtime.Tuple)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a tuple", ErrInvalid, h.Inspect())
	}
	for i, item := range tup.Items {
		if _, err := SimpleClass(item); err != nil {
			return nil, fmt.Errorf("%w: tuple element %d: %s", ErrInvalid, i, item.Inspect())
		}
	}
	return tup, nil
}

// ForwardRefName validates that h is a forward-reference string
// holding a dotted attribute path and returns the path.
func ForwardRefName(h runtime.Object) (string, error) {
	str, ok := h.(*runtime.Str)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a forward reference", ErrInvalid, h.Inspect())
	}
	if !utils.IsDottedIdentifier(str.Value) {
		return "", fmt.Errorf("%w: %q is not a dotted attribute path", ErrInvalid, str.Value)
	}
	return str.Value, nil
}

// UnionMembers splits an annotation tuple into its class members and
// its forward-reference members. Unions may mix both: the classes are
// checked directly and the references are resolved at call time.
func UnionMembers(tup *runtime.Tuple) (classes []*runtime.Class, refs []string, err error) {
	if len(tup.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: empty union tuple", ErrInvalid)
	}
	for i, item := range tup.Items {
		switch Classify(item) {
		case KindClass:
			cls, cerr := SimpleClass(item)
			if cerr != nil {
				return nil, nil, fmt.Errorf("tuple element %d: %w", i, cerr)
			}
			classes = append(classes, cls)
		case KindForwardRef:
			name, rerr := ForwardRefName(item)
			if rerr != nil {
				return nil, nil, fmt.Errorf("tuple element %d: %w", i, rerr)
			}
			refs = append(refs, name)
		default:
			return nil, nil, fmt.Errorf("%w: tuple element %d: %s", ErrInvalid, i, item.Inspect())
		}
	}
	return classes, refs, nil
}
