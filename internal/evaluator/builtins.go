package evaluator

import (
	"fmt"
	"io"
	"strings"

	"github.com/jpetrucciani/beartype/internal/runtime"
)

// PrintBuiltin returns the variadic print function bound to out. Strings
// print raw; everything else prints its Inspect form.
func PrintBuiltin(out io.Writer) *runtime.Function {
	return &runtime.Function{
		Name:     "print",
		Variadic: true,
		Impl: func(args []runtime.Object) (runtime.Object, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				if s, ok := arg.(*runtime.Str); ok {
					parts[i] = s.Value
					continue
				}
				parts[i] = arg.Inspect()
			}
			fmt.Fprintln(out, strings.Join(parts, " "))
			return runtime.NilValue, nil
		},
	}
}

// SeedBuiltins binds the builtin classes and the print function into env.
func SeedBuiltins(env *Environment, out io.Writer) {
	for name, cls := range runtime.Builtins() {
		env.Set(name, cls)
	}
	env.Set("print", PrintBuiltin(out))
}
