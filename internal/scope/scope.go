// Package scope tracks which packages are registered for import-time
// instrumentation, and with which configuration.
//
// Registrations form a trie keyed by dotted-name segment. Registering a
// package covers its whole subtree: once "geo.shapes" is registered,
// "geo.shapes.polygon" is too, while "geo" and "geo.other" are not.
// Registering the root covers every package and short-circuits all queries.
//
// A Tree performs no locking of its own. Node creation and configuration
// assignment span multiple steps, so the owner, in practice the module
// loader, must serialize every query and mutation behind one mutex.
package scope

import (
	"fmt"
	"strings"

	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/utils"
)

type node struct {
	conf     *config.Conf
	children map[string]*node
}

// setConf assigns conf to the node, treating re-registration with an equal
// configuration as a no-op and with a different one as a conflict.
func (n *node) setConf(label string, conf *config.Conf) error {
	switch {
	case n.conf == nil:
		n.conf = conf
	case n.conf.Equal(conf):
		// Idempotent re-registration.
	default:
		return fmt.Errorf("%w: %s carries %s, refusing %s", ErrConflict, label, n.conf, conf)
	}
	return nil
}

// Tree is the registration trie. The zero value is an empty tree with
// nothing registered.
type Tree struct {
	root node
}

// New returns an empty registration tree.
func New() *Tree {
	return &Tree{}
}

// Register records conf for each named package and its entire subtree.
// Every name is validated before any mutation happens, but application is
// per name: if a later name conflicts with an existing registration, the
// earlier names in the same call stay registered. There is no rollback.
func (t *Tree) Register(conf *config.Conf, names ...string) error {
	if conf == nil {
		return ErrNilConf
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: no package names given", ErrInvalidName)
	}
	for _, name := range names {
		if !utils.IsDottedIdentifier(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	for _, name := range names {
		cur := &t.root
		for _, seg := range strings.Split(name, ".") {
			if cur.children == nil {
				cur.children = make(map[string]*node)
			}
			child, ok := cur.children[seg]
			if !ok {
				child = &node{}
				cur.children[seg] = child
			}
			cur = child
		}
		if err := cur.setConf(fmt.Sprintf("package %q", name), conf); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAll records conf at the root, registering every package at once.
// The same equal/conflict rules as Register apply to repeated calls.
func (t *Tree) RegisterAll(conf *config.Conf) error {
	if conf == nil {
		return ErrNilConf
	}
	return t.root.setConf("all packages", conf)
}

// IsRegistered reports whether name falls inside any registered subtree.
// A configured root answers true for every name without walking.
func (t *Tree) IsRegistered(name string) bool {
	if t.root.conf != nil {
		return true
	}
	return t.ConfFor(name) != nil
}

// IsAnyRegistered reports whether any individual package has been
// registered, that is, whether the top-level segment index is non-empty.
// Root-level registration via RegisterAll is not reflected here.
func (t *Tree) IsAnyRegistered() bool {
	return len(t.root.children) > 0
}

// ConfFor returns the configuration governing name: the one carried by the
// most specific registered ancestor, falling back to the root configuration,
// or nil when name is outside every registered subtree.
func (t *Tree) ConfFor(name string) *config.Conf {
	conf := t.root.conf
	cur := &t.root
	for _, seg := range strings.Split(name, ".") {
		child, ok := cur.children[seg]
		if !ok {
			return conf
		}
		cur = child
		if cur.conf != nil {
			conf = cur.conf
		}
	}
	return conf
}
