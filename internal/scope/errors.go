package scope

import "errors"

var (
	// ErrInvalidName reports a package name that is not a dotted identifier
	// sequence, or a registration call with no names at all.
	ErrInvalidName = errors.New("scope: invalid package name")

	// ErrNilConf reports a registration without a configuration.
	ErrNilConf = errors.New("scope: nil configuration")

	// ErrConflict reports an attempt to re-register a package with a
	// configuration different from the one it already carries.
	ErrConflict = errors.New("scope: conflicting configuration")
)
