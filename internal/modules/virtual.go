package modules

import (
	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/runtime"
)

// instrumentModule builds the virtual module that instrumented code
// imports the checking decorator from. It carries the decorator under two
// names: the mangled one injected by the rewriter and the public one for
// hand-written decoration.
func (l *Loader) instrumentModule() *runtime.Module {
	decorate := func(args []runtime.Object) (runtime.Object, error) {
		return l.decorateObject(args[0])
	}
	doc := "Wrap a function so calls validate annotated parameters and returns."
	mangled := &runtime.Function{
		Name:   config.InstrumentAttrName,
		Module: config.InstrumentModuleName,
		Doc:    doc,
		Params: []runtime.Param{{Name: "func"}},
		Impl:   decorate,
	}
	public := &runtime.Function{
		Name:   config.DecoratorFuncName,
		Module: config.InstrumentModuleName,
		Doc:    doc,
		Params: []runtime.Param{{Name: "func"}},
		Impl:   decorate,
	}
	return &runtime.Module{
		Name: config.InstrumentModuleName,
		Doc:  "Runtime type checking for annotated functions.",
		Attrs: map[string]runtime.Object{
			mangled.Name: mangled,
			public.Name:  public,
		},
	}
}
