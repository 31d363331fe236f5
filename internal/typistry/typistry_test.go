package typistry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpetrucciani/beartype/internal/hint"
	"github.com/jpetrucciani/beartype/internal/runtime"
)

type fakeImporter struct {
	objects map[string]runtime.Object
	errs    map[string]error
	calls   int
}

func (f *fakeImporter) ImportAttr(name string) (runtime.Object, error) {
	f.calls++
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if obj, ok := f.objects[name]; ok {
		return obj, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func testClass(module, name string) *runtime.Class {
	return &runtime.Class{Name: name, Module: module, Bases: []*runtime.Class{runtime.ObjectClass}}
}

func keyFromFragment(t *testing.T, frag string) string {
	t.Helper()
	inner := strings.TrimSuffix(strings.TrimPrefix(frag, StoreParamName+"["), "]")
	key, err := strconv.Unquote(inner)
	if err != nil {
		t.Fatalf("malformed fragment %q: %v", frag, err)
	}
	return key
}

func classSet(t *testing.T, obj runtime.Object) map[string]bool {
	t.Helper()
	tup, ok := obj.(*runtime.Tuple)
	if !ok {
		t.Fatalf("expected stored tuple, got %T", obj)
	}
	set := make(map[string]bool, len(tup.Items))
	for _, item := range tup.Items {
		set[item.(*runtime.Class).QualifiedName()] = true
	}
	return set
}

func TestRegisterTypeStoresUnderQualifiedName(t *testing.T) {
	reg := NewRegistry(nil)
	circle := testClass("geo.shapes", "Circle")

	frag, err := reg.RegisterType(circle)
	require.NoError(t, err)
	require.Equal(t, `__beartypistry["geo.shapes.Circle"]`, frag)

	obj, ok := reg.TryGet("geo.shapes.Circle")
	require.True(t, ok)
	require.Same(t, circle, obj)
}

func TestRegisterTypeIdempotent(t *testing.T) {
	reg := NewRegistry(nil)
	circle := testClass("geo.shapes", "Circle")

	first, err := reg.RegisterType(circle)
	require.NoError(t, err)
	second, err := reg.RegisterType(circle)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, reg.Len())
}

func TestRegisterTypeBuiltinBypassesStore(t *testing.T) {
	reg := NewRegistry(nil)

	frag, err := reg.RegisterType(runtime.StrClass)
	require.NoError(t, err)
	require.Equal(t, "Str", frag)
	require.Zero(t, reg.Len())
}

func TestRegisterTypeRejectsBadHints(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.RegisterType(&runtime.Int{Value: 3})
	require.ErrorIs(t, err, hint.ErrInvalid)

	generic := &runtime.Class{Name: "Box", Module: "col", Params: []string{"T"}}
	_, err = reg.RegisterType(generic)
	require.ErrorIs(t, err, hint.ErrInvalid)
}

func TestRegisterTypeQualifiedNameClash(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.RegisterType(testClass("geo", "Shape"))
	require.NoError(t, err)

	// A second, distinct class under the same qualified name is a
	// collision, not an overwrite.
	_, err = reg.RegisterType(testClass("geo", "Shape"))
	require.ErrorIs(t, err, ErrKeyCollision)
}

func TestRegisterTupleOrderAndDuplicatesIrrelevant(t *testing.T) {
	reg := NewRegistry(nil)
	alpha := testClass("app", "Alpha")
	beta := testClass("app", "Beta")

	fragAB, err := reg.RegisterTuple(&runtime.Tuple{Items: []runtime.Object{alpha, beta}}, false)
	require.NoError(t, err)
	fragBAA, err := reg.RegisterTuple(&runtime.Tuple{Items: []runtime.Object{beta, alpha, alpha}}, false)
	require.NoError(t, err)

	keyAB := keyFromFragment(t, fragAB)
	keyBAA := keyFromFragment(t, fragBAA)
	require.True(t, strings.HasPrefix(keyAB, "+"))
	// Equal contents hash to equal keys; the later registration is pushed
	// to a marker-suffixed key rather than assumed to be the same tuple.
	require.Equal(t, keyAB+"~", keyBAA)

	first, ok := reg.TryGet(keyAB)
	require.True(t, ok)
	second, ok := reg.TryGet(keyBAA)
	require.True(t, ok)
	want := map[string]bool{"app.Alpha": true, "app.Beta": true}
	require.Equal(t, want, classSet(t, first))
	require.Equal(t, want, classSet(t, second))
}

func TestRegisterTupleMemoized(t *testing.T) {
	reg := NewRegistry(nil)
	tup := &runtime.Tuple{Items: []runtime.Object{testClass("app", "Alpha"), testClass("app", "Beta")}}

	first, err := reg.RegisterTuple(tup, false)
	require.NoError(t, err)
	entries := reg.Len()

	second, err := reg.RegisterTuple(tup, false)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, entries, reg.Len())
}

func TestRegisterTupleSingleElementDegrades(t *testing.T) {
	reg := NewRegistry(nil)
	circle := testClass("geo.shapes", "Circle")

	frag, err := reg.RegisterTuple(&runtime.Tuple{Items: []runtime.Object{circle}}, false)
	require.NoError(t, err)
	require.Equal(t, `__beartypistry["geo.shapes.Circle"]`, frag)

	obj, ok := reg.TryGet("geo.shapes.Circle")
	require.True(t, ok)
	require.Same(t, circle, obj)
}

func TestRegisterTupleDuplicatesCoerceToOneElement(t *testing.T) {
	reg := NewRegistry(nil)
	circle := testClass("geo.shapes", "Circle")

	// Two elements before coercion, so no degradation: the deduplicated
	// single-element tuple is stored under a synthesized key.
	frag, err := reg.RegisterTuple(&runtime.Tuple{Items: []runtime.Object{circle, circle}}, false)
	require.NoError(t, err)

	key := keyFromFragment(t, frag)
	require.True(t, strings.HasPrefix(key, "+"))
	obj, ok := reg.TryGet(key)
	require.True(t, ok)
	tup, ok := obj.(*runtime.Tuple)
	require.True(t, ok)
	require.Len(t, tup.Items, 1)
	require.Same(t, circle, tup.Items[0])
}

func TestRegisterTupleUniquePreservesExactObject(t *testing.T) {
	reg := NewRegistry(nil)
	tup := &runtime.Tuple{Items: []runtime.Object{testClass("app", "Beta"), testClass("app", "Alpha")}}

	frag, err := reg.RegisterTuple(tup, true)
	require.NoError(t, err)

	obj, ok := reg.TryGet(keyFromFragment(t, frag))
	require.True(t, ok)
	require.Same(t, tup, obj)
}

func TestRegisterTupleHashCollision(t *testing.T) {
	reg := NewRegistry(nil, WithTupleHash(func([]string) uint64 { return 7 }))

	frag1, err := reg.RegisterTuple(&runtime.Tuple{Items: []runtime.Object{testClass("a", "A"), testClass("a", "B")}}, false)
	require.NoError(t, err)
	frag2, err := reg.RegisterTuple(&runtime.Tuple{Items: []runtime.Object{testClass("b", "C"), testClass("b", "D")}}, false)
	require.NoError(t, err)

	require.Equal(t, "+7", keyFromFragment(t, frag1))
	require.Equal(t, "+7~", keyFromFragment(t, frag2))

	first, ok := reg.TryGet("+7")
	require.True(t, ok)
	second, ok := reg.TryGet("+7~")
	require.True(t, ok)
	require.Equal(t, map[string]bool{"a.A": true, "a.B": true}, classSet(t, first))
	require.Equal(t, map[string]bool{"b.C": true, "b.D": true}, classSet(t, second))
}

func TestRegisterTupleRejectsNonClassElements(t *testing.T) {
	reg := NewRegistry(nil)
	mixed := &runtime.Tuple{Items: []runtime.Object{runtime.StrClass, &runtime.Str{Value: "chaos.Daemon"}}}

	_, err := reg.RegisterTuple(mixed, false)
	require.ErrorIs(t, err, hint.ErrInvalid)
}

func TestRegisterForwardRefDefersEverything(t *testing.T) {
	imp := &fakeImporter{}
	reg := NewRegistry(imp)

	frag, err := reg.RegisterForwardRef("chaos.pit.Daemon")
	require.NoError(t, err)
	require.Equal(t, `__beartypistry["chaos.pit.Daemon"]`, frag)
	require.Zero(t, imp.calls)
	require.Zero(t, reg.Len())

	again, err := reg.RegisterForwardRef("chaos.pit.Daemon")
	require.NoError(t, err)
	require.Equal(t, frag, again)
}

func TestRegisterForwardRefValidatesName(t *testing.T) {
	reg := NewRegistry(nil)

	for _, bad := range []string{"", "1bad", "a..b", "a.b-", "a b"} {
		_, err := reg.RegisterForwardRef(bad)
		require.ErrorIs(t, err, ErrInvalidName, "name %q", bad)
	}
}

func TestResolveImportsOnFirstMiss(t *testing.T) {
	daemon := testClass("chaos.pit", "Daemon")
	imp := &fakeImporter{objects: map[string]runtime.Object{"chaos.pit.Daemon": daemon}}
	reg := NewRegistry(imp)

	_, err := reg.RegisterForwardRef("chaos.pit.Daemon")
	require.NoError(t, err)
	require.Zero(t, imp.calls)

	obj, err := reg.Resolve("chaos.pit.Daemon")
	require.NoError(t, err)
	require.Same(t, daemon, obj)
	require.Equal(t, 1, imp.calls)
	require.Equal(t, 1, reg.Len())

	obj, err = reg.Resolve("chaos.pit.Daemon")
	require.NoError(t, err)
	require.Same(t, daemon, obj)
	require.Equal(t, 1, imp.calls)
}

func TestResolveMissingAttr(t *testing.T) {
	reg := NewRegistry(&fakeImporter{})

	_, err := reg.Resolve("ghost.Town")
	require.ErrorIs(t, err, ErrUnresolvable)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveImportErrorPropagatesVerbatim(t *testing.T) {
	boom := errors.New("daemon summoning failed at import")
	imp := &fakeImporter{errs: map[string]error{"bad.Mod": boom}}
	reg := NewRegistry(imp)

	_, err := reg.Resolve("bad.Mod")
	require.Same(t, boom, err)
	require.NotErrorIs(t, err, ErrUnresolvable)
}

func TestResolveNonClassAttr(t *testing.T) {
	imp := &fakeImporter{objects: map[string]runtime.Object{"app.answer": &runtime.Int{Value: 42}}}
	reg := NewRegistry(imp)

	_, err := reg.Resolve("app.answer")
	require.ErrorIs(t, err, ErrUnresolvable)
	require.Equal(t, 1, imp.calls)
	require.Zero(t, reg.Len())
}

func TestResolveRejectsNonImportableKey(t *testing.T) {
	reg := NewRegistry(&fakeImporter{})

	_, err := reg.Resolve("+123")
	require.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolveWithoutImporter(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Resolve("geo.Circle")
	require.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolveAliasedNameRejected(t *testing.T) {
	circle := testClass("geo.shapes", "Circle")
	imp := &fakeImporter{objects: map[string]runtime.Object{"alias.Circle": circle}}
	reg := NewRegistry(imp)

	// The imported class answers to a different qualified name than the
	// reference, so storing it would corrupt the name-keyed invariant.
	_, err := reg.Resolve("alias.Circle")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestSetGuards(t *testing.T) {
	reg := NewRegistry(nil)
	shape := testClass("geo", "Shape")

	require.NoError(t, reg.Set("geo.Shape", shape))
	require.ErrorIs(t, reg.Set("geo.Shape", shape), ErrKeyCollision)
	require.ErrorIs(t, reg.Set("", shape), ErrInvalidName)
	require.ErrorIs(t, reg.Set("wrong.Name", testClass("geo", "Blob")), ErrInvalidName)

	// Builtin short names are accepted as keys even for shadowing classes.
	require.NoError(t, reg.Set("Str", testClass("my", "Str")))

	pair := &runtime.Tuple{Items: []runtime.Object{testClass("a", "A"), testClass("a", "B")}}
	require.ErrorIs(t, reg.Set("geo.pair", pair), ErrInvalidName)

	stringy := &runtime.Tuple{Items: []runtime.Object{&runtime.Str{Value: "x"}}}
	require.ErrorIs(t, reg.Set("+9", stringy), hint.ErrInvalid)

	require.ErrorIs(t, reg.Set("x.y", &runtime.Int{Value: 1}), hint.ErrInvalid)
}
