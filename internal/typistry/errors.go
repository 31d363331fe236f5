package typistry

import "errors"

var (
	// ErrInvalidName reports a key or forward-reference name that is not a
	// valid dotted attribute path, or a store key that disagrees with the
	// registered value.
	ErrInvalidName = errors.New("typistry: invalid name")

	// ErrKeyCollision reports an insertion under a key that is already
	// present in the registry. Entries are never overwritten.
	ErrKeyCollision = errors.New("typistry: duplicate key")

	// ErrUnresolvable reports a forward reference whose deferred import
	// failed or produced something other than a class.
	ErrUnresolvable = errors.New("typistry: unresolvable forward reference")

	// ErrNotFound is the contract sentinel between the registry and its
	// Importer: implementations wrap ErrNotFound when the referenced module
	// or attribute does not exist, which Resolve maps to ErrUnresolvable.
	// Any other import error propagates to the caller verbatim.
	ErrNotFound = errors.New("typistry: attribute not found")
)
