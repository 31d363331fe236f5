package runtime

import "strings"

// Class is a runtime class object. Builtin classes have an empty
// Module and live under their bare name; script classes carry the
// dotted path of their defining module.
type Class struct {
	Name   string
	Module string
	Bases  []*Class

	// Params are declared type parameters. A class with parameters is
	// generic and not usable as a simple type hint.
	Params []string

	// Attrs holds methods and class attributes by name.
	Attrs map[string]Object

	Doc string
}

func (c *Class) ClassOf() *Class { return ClassClass }
func (c *Class) Inspect() string { return "<class " + c.QualifiedName() + ">" }

// QualifiedName is the registry identity of the class: the dotted
// defining-module path joined with the basename. Builtins use the
// bare basename.
func (c *Class) QualifiedName() string {
	if c.Module == "" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// IsGeneric reports whether the class declares type parameters.
func (c *Class) IsGeneric() bool { return len(c.Params) > 0 }

// IsSubclassOf walks the base-class graph transitively. A class is a
// subclass of itself.
func (c *Class) IsSubclassOf(target *Class) bool {
	if c == target {
		return true
	}
	for _, base := range c.Bases {
		if base.IsSubclassOf(target) {
			return true
		}
	}
	return false
}

// Attr looks up a method or class attribute, consulting bases in
// declaration order.
func (c *Class) Attr(name string) (Object, bool) {
	if obj, ok := c.Attrs[name]; ok {
		return obj, true
	}
	for _, base := range c.Bases {
		if obj, ok := base.Attr(name); ok {
			return obj, true
		}
	}
	return nil, false
}

// New constructs an instance. Constructor arguments are retained in
// order; the language subset has no attribute assignment, so instances
// stay opaque records of their construction.
func (c *Class) New(args []Object) *Instance {
	return &Instance{Class: c, Args: args}
}

// Instance is a value of a script-defined class.
type Instance struct {
	Class *Class
	Args  []Object
}

func (in *Instance) ClassOf() *Class { return in.Class }
func (in *Instance) Inspect() string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(in.Class.QualifiedName())
	b.WriteString(" object>")
	return b.String()
}

// IsInstance reports whether obj's class is cls or a subclass of it.
func IsInstance(obj Object, cls *Class) bool {
	if obj == nil || cls == nil {
		return false
	}
	return obj.ClassOf().IsSubclassOf(cls)
}

// IsInstanceAny reports whether obj is an instance of any class in the
// tuple, in order. Non-class items are skipped.
func IsInstanceAny(obj Object, classes *Tuple) bool {
	for _, item := range classes.Items {
		cls, ok := item.(*Class)
		if !ok {
			continue
		}
		if IsInstance(obj, cls) {
			return true
		}
	}
	return false
}
