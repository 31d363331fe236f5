// Package runtime defines the dynamic value universe the engine
// operates on: classes, instances, functions, modules, and the
// primitive values scripts compute with. Type checks reduce to
// IsInstance over this universe.
package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is implemented by every runtime value.
type Object interface {
	ClassOf() *Class
	Inspect() string
}

// Str is a string value.
type Str struct {
	Value string
}

func (s *Str) ClassOf() *Class { return StrClass }
func (s *Str) Inspect() string { return strconv.Quote(s.Value) }

// Int is a 64-bit integer value.
type Int struct {
	Value int64
}

func (i *Int) ClassOf() *Class { return IntClass }
func (i *Int) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// Float is a 64-bit floating point value.
type Float struct {
	Value float64
}

func (f *Float) ClassOf() *Class { return FloatClass }
func (f *Float) Inspect() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// Bool is a boolean value. Use True and False rather than allocating.
type Bool struct {
	Value bool
}

func (b *Bool) ClassOf() *Class { return BoolClass }
func (b *Bool) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Nil is the absent value. Use NilValue.
type Nil struct{}

func (n *Nil) ClassOf() *Class { return NilClass }
func (n *Nil) Inspect() string { return "nil" }

var (
	True     = &Bool{Value: true}
	False    = &Bool{Value: false}
	NilValue = &Nil{}
)

// BoolOf returns the shared Bool for b.
func BoolOf(b bool) *Bool {
	if b {
		return True
	}
	return False
}

// List is an ordered, mutable element sequence.
type List struct {
	Elements []Object
}

func (l *List) ClassOf() *Class { return ListClass }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Map is a string-keyed collection. Scripts have no map literal; Map
// values come from the host.
type Map struct {
	Pairs map[string]Object
}

func (m *Map) ClassOf() *Class { return MapClass }
func (m *Map) Inspect() string {
	keys := make([]string, 0, len(m.Pairs))
	for k := range m.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Quote(k) + ": " + m.Pairs[k].Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Bytes is a raw byte sequence.
type Bytes struct {
	Value []byte
}

func (b *Bytes) ClassOf() *Class { return BytesClass }
func (b *Bytes) Inspect() string { return "b" + strconv.Quote(string(b.Value)) }

// Tuple is an ordered, fixed element sequence. Tuples of classes
// double as union type hints.
type Tuple struct {
	Items []Object
}

func (t *Tuple) ClassOf() *Class { return TupleClass }
func (t *Tuple) Inspect() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.Inspect()
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Truthy reports the boolean interpretation of obj: false, nil, zero
// numbers, and empty strings are false; everything else is true.
func Truthy(obj Object) bool {
	switch v := obj.(type) {
	case *Bool:
		return v.Value
	case *Nil:
		return false
	case *Int:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *Str:
		return v.Value != ""
	default:
		return true
	}
}
