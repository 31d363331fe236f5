package config

import "fmt"

// Conf carries the per-scope checking configuration. Scopes registered
// with equal Conf values are interchangeable; re-registration with a
// different value is a conflict. Compare with Equal, not pointer
// identity.
type Conf struct {
	// IsDebug dumps generated wrapper sources through the logger.
	IsDebug bool

	// IsWarningOnly downgrades call-time violations to logged warnings
	// instead of errors.
	IsWarningOnly bool
}

// DefaultConf returns the zero configuration: strict checking, no debug.
func DefaultConf() *Conf {
	return &Conf{}
}

// Equal compares by value. A nil receiver equals a nil argument only.
func (c *Conf) Equal(other *Conf) bool {
	if c == nil || other == nil {
		return c == other
	}
	return *c == *other
}

func (c *Conf) String() string {
	if c == nil {
		return "Conf(nil)"
	}
	return fmt.Sprintf("Conf{debug: %t, warn_only: %t}", c.IsDebug, c.IsWarningOnly)
}
