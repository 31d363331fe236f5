package modules

import "errors"

var (
	// ErrModuleNotFound reports a dotted module path with no source file
	// under any search root.
	ErrModuleNotFound = errors.New("modules: module not found")

	// ErrAttrNotFound reports a loaded module lacking a requested
	// top-level attribute.
	ErrAttrNotFound = errors.New("modules: attribute not found")

	// ErrCircularImport reports a module import chain that re-enters a
	// module currently being loaded.
	ErrCircularImport = errors.New("modules: circular import")
)
