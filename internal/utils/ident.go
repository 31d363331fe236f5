package utils

import (
	"strings"
	"unicode"
)

// IsIdentifier reports whether s is a single valid identifier: a letter
// or underscore followed by letters, digits, or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsDottedIdentifier reports whether s is a non-empty sequence of
// identifiers joined by single dots: "pkg", "pkg.sub.mod". Leading,
// trailing, or doubled dots fail.
func IsDottedIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !IsIdentifier(part) {
			return false
		}
	}
	return true
}

// SplitQualifiedName splits a fully-qualified attribute path on its
// last dot: "pkg.mod.Cls" -> ("pkg.mod", "Cls"). Names without a dot
// return an empty module part.
func SplitQualifiedName(name string) (module, attr string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}
