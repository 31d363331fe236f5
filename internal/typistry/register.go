package typistry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/jpetrucciani/beartype/internal/hint"
	"github.com/jpetrucciani/beartype/internal/runtime"
	"github.com/jpetrucciani/beartype/internal/utils"
)

// RegisterType registers a class hint and returns the fragment generated
// wrappers use to reference it. Builtin classes yield their bare name and
// are never stored; every other class is stored under its qualified name.
// Calls are memoized per class object, so an annotation shared by many
// decorated functions validates and stores exactly once.
func (r *Registry) RegisterType(h runtime.Object) (string, error) {
	cls, err := hint.SimpleClass(h)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerTypeLocked(cls)
}

func (r *Registry) registerTypeLocked(cls *runtime.Class) (string, error) {
	if frag, ok := r.typeMemo[cls]; ok {
		return frag, nil
	}
	frag := cls.Name
	if !runtime.IsBuiltinClass(cls) {
		key := cls.QualifiedName()
		if err := r.setLocked(key, cls); err != nil {
			return "", err
		}
		frag = FragmentFor(key)
	}
	r.typeMemo[cls] = frag
	return frag, nil
}

// RegisterTuple registers a tuple-of-classes hint, the instance-check
// union shape, and returns its fragment. A one-element tuple degrades to
// RegisterType of the sole element. Unless isUnique promises the elements
// are already distinct, duplicates are coerced away; element order never
// affects the stored union. The key is the reserved prefix plus the decimal
// content hash of the element identities. Hashes are not assumed
// collision-free: when the key is already taken it is extended with a
// marker until free, and since memoization admits each distinct tuple only
// once, a taken key always belongs to a different tuple.
func (r *Registry) RegisterTuple(h runtime.Object, isUnique bool) (string, error) {
	tup, err := hint.SimpleTuple(h)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	memoKey := tupleMemoKey(tup, isUnique)
	if frag, ok := r.tupleMemo[memoKey]; ok {
		return frag, nil
	}

	if len(tup.Items) == 1 {
		frag, err := r.registerTypeLocked(tup.Items[0].(*runtime.Class))
		if err != nil {
			return "", err
		}
		r.tupleMemo[memoKey] = frag
		return frag, nil
	}

	stored := tup
	if !isUnique {
		stored = dedupeTuple(tup)
	}

	key := tupleKeyPrefix + strconv.FormatUint(r.hashFn(tupleIdentities(stored)), 10)
	for {
		if _, taken := r.store[key]; !taken {
			break
		}
		key += collisionMarker
	}
	if err := r.setLocked(key, stored); err != nil {
		return "", err
	}
	frag := FragmentFor(key)
	r.tupleMemo[memoKey] = frag
	return frag, nil
}

// RegisterForwardRef validates name as a dotted attribute path and returns
// its fragment. Nothing is imported or stored: the reference stays pending
// until Resolve first misses on it, so a class that does not exist yet at
// decoration time may still be named as long as it exists by call time.
func (r *Registry) RegisterForwardRef(name string) (string, error) {
	if !utils.IsDottedIdentifier(name) {
		return "", fmt.Errorf("%w: forward reference %q", ErrInvalidName, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if frag, ok := r.refMemo[name]; ok {
		return frag, nil
	}
	frag := FragmentFor(name)
	r.refMemo[name] = frag
	return frag, nil
}

// tupleMemoKey keys the memo on the exact elements in their given order
// plus the uniqueness flag, mirroring memoization by argument identity.
func tupleMemoKey(tup *runtime.Tuple, isUnique bool) string {
	var b strings.Builder
	for _, item := range tup.Items {
		fmt.Fprintf(&b, "%p;", item)
	}
	if isUnique {
		b.WriteByte('!')
	}
	return b.String()
}

// dedupeTuple drops duplicate classes and orders the survivors by
// qualified name, so equal unions store equal tuples no matter how the
// source spelled them.
func dedupeTuple(tup *runtime.Tuple) *runtime.Tuple {
	seen := make(map[runtime.Object]bool, len(tup.Items))
	items := make([]runtime.Object, 0, len(tup.Items))
	for _, item := range tup.Items {
		if !seen[item] {
			seen[item] = true
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return classIdentity(items[i]) < classIdentity(items[j])
	})
	return &runtime.Tuple{Items: items}
}

func tupleIdentities(tup *runtime.Tuple) []string {
	ids := make([]string, len(tup.Items))
	for i, item := range tup.Items {
		ids[i] = classIdentity(item)
	}
	sort.Strings(ids)
	return ids
}

func classIdentity(obj runtime.Object) string {
	if cls, ok := obj.(*runtime.Class); ok {
		return cls.QualifiedName()
	}
	return obj.Inspect()
}

func defaultTupleHash(ids []string) uint64 {
	digest := xxhash.New()
	for _, id := range ids {
		_, _ = digest.WriteString(id)
		_, _ = digest.Write([]byte{0})
	}
	return digest.Sum64()
}
