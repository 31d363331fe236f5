package decor

import (
	"errors"
	"fmt"

	"github.com/jpetrucciani/beartype/internal/runtime"
)

// ErrViolation is the sentinel every ViolationError unwraps to.
var ErrViolation = errors.New("decor: type hint violation")

// ViolationError reports a call-time value that failed its type hint.
// Param is empty when the return value is at fault.
type ViolationError struct {
	Func  string
	Param string
	Hint  string
	Value runtime.Object
}

func (e *ViolationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("@beartype %s() return %s violates type hint %s", e.Func, e.Value.Inspect(), e.Hint)
	}
	return fmt.Sprintf("@beartype %s() parameter %s=%s violates type hint %s", e.Func, e.Param, e.Value.Inspect(), e.Hint)
}

func (e *ViolationError) Unwrap() error { return ErrViolation }
