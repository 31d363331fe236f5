package decor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jpetrucciani/beartype/internal/hint"
	"github.com/jpetrucciani/beartype/internal/runtime"
)

// check verifies one annotated value against the classes its hint names.
// Classes are held directly; forward references stay registry keys and are
// resolved on first use, at call time rather than decoration time.
type check struct {
	param    string // parameter name, "" for the return value
	index    int    // positional index, -1 for the return value
	display  string // hint rendered for violation messages
	fragment string // registry reference embedded in the generated source
	classes  []*runtime.Class
	refs     []string
}

// passes reports whether value satisfies any alternative of the check.
// A forward reference that cannot be resolved aborts the check with its
// resolution error.
func (c *check) passes(value runtime.Object, d *Decorator) (bool, error) {
	for _, cls := range c.classes {
		if runtime.IsInstance(value, cls) {
			return true, nil
		}
	}
	for _, name := range c.refs {
		resolved, err := d.registry.Resolve(name)
		if err != nil {
			return false, err
		}
		if runtime.IsInstance(value, resolved.(*runtime.Class)) {
			return true, nil
		}
	}
	return false, nil
}

// buildPlan registers every hint in the signature and assembles the checks
// the wrapper will run. The return hint, when present, comes first.
func (d *Decorator) buildPlan(fn *runtime.Function) ([]check, error) {
	plan := make([]check, 0, len(fn.Params)+1)
	if fn.ReturnHint != nil {
		c, err := d.buildCheck("", -1, fn.ReturnHint)
		if err != nil {
			return nil, fmt.Errorf("%s() return annotation: %w", fn.QualifiedName(), err)
		}
		plan = append(plan, c)
	}
	for i, p := range fn.Params {
		if p.Hint == nil {
			continue
		}
		c, err := d.buildCheck(p.Name, i, p.Hint)
		if err != nil {
			return nil, fmt.Errorf("%s() parameter %q annotation: %w", fn.QualifiedName(), p.Name, err)
		}
		plan = append(plan, c)
	}
	return plan, nil
}

func (d *Decorator) buildCheck(param string, index int, h runtime.Object) (check, error) {
	c := check{param: param, index: index, display: hintDisplay(h)}

	switch hint.Classify(h) {
	case hint.KindClass:
		frag, err := d.registry.RegisterType(h)
		if err != nil {
			return check{}, err
		}
		c.fragment = frag
		c.classes = []*runtime.Class{h.(*runtime.Class)}

	case hint.KindForwardRef:
		name := h.(*runtime.Str).Value
		frag, err := d.registry.RegisterForwardRef(name)
		if err != nil {
			return check{}, err
		}
		c.fragment = frag
		c.refs = []string{name}

	case hint.KindTuple:
		classes, refs, err := hint.UnionMembers(h.(*runtime.Tuple))
		if err != nil {
			return check{}, err
		}
		c.classes, c.refs = classes, refs
		frag, err := d.registerUnion(h.(*runtime.Tuple), classes, refs)
		if err != nil {
			return check{}, err
		}
		c.fragment = frag

	default:
		return check{}, fmt.Errorf("%w: %s", hint.ErrInvalid, h.Inspect())
	}
	return c, nil
}

// registerUnion registers a tuple hint. A pure-class tuple is stored whole;
// a tuple mixing classes and forward-reference strings cannot live in the
// store, so its class subset and each reference register separately and the
// fragment becomes a tuple expression over the pieces.
func (d *Decorator) registerUnion(tup *runtime.Tuple, classes []*runtime.Class, refs []string) (string, error) {
	if len(refs) == 0 {
		return d.registry.RegisterTuple(tup, false)
	}

	frags := make([]string, 0, len(refs)+1)
	switch len(classes) {
	case 0:
	case 1:
		frag, err := d.registry.RegisterType(classes[0])
		if err != nil {
			return "", err
		}
		frags = append(frags, frag)
	default:
		subset := make([]runtime.Object, len(classes))
		for i, cls := range classes {
			subset[i] = cls
		}
		frag, err := d.registry.RegisterTuple(&runtime.Tuple{Items: subset}, false)
		if err != nil {
			return "", err
		}
		frags = append(frags, frag)
	}
	for _, name := range refs {
		frag, err := d.registry.RegisterForwardRef(name)
		if err != nil {
			return "", err
		}
		frags = append(frags, frag)
	}
	return "(" + strings.Join(frags, ", ") + ")", nil
}

func hintDisplay(h runtime.Object) string {
	switch v := h.(type) {
	case *runtime.Class:
		return v.QualifiedName()
	case *runtime.Str:
		return strconv.Quote(v.Value)
	case *runtime.Tuple:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = hintDisplay(item)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return h.Inspect()
	}
}
