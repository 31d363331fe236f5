package config

import "strings"

const SourceFileExt = ".bear"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".bear", ".br"}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized source extension from name, if any.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// Module names with engine-level meaning
const (
	// FutureModuleName is the pseudo module of future-behavior imports.
	// They carry no runtime bindings and must stay at the top of a file.
	FutureModuleName = "__future__"

	// InstrumentModuleName is the virtual module the rewriter imports the
	// decoration entry point from.
	InstrumentModuleName = "beartype"

	// InstrumentAttrName is the name the rewriter binds and appends to
	// decorator lists. Underscored: user code should not collide with it.
	InstrumentAttrName = "__beartype_object__"

	// DecoratorFuncName is the public alias of the decorator, for
	// explicit use in scripts.
	DecoratorFuncName = "beartype"

	// EntryFuncName is the function the run command invokes.
	EntryFuncName = "main"
)

// Project file names, checked in order.
var ProjectFileNames = []string{"bear.yaml", "bear.yml"}
