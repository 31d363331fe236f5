package decor

import (
	"fmt"
	"strings"

	"github.com/jpetrucciani/beartype/internal/runtime"
)

// Names bound inside generated wrapper source. The wrapped function and the
// registry store arrive through hidden parameters so the emitted code never
// names globals.
const (
	wrapperNamePrefix = "__beartype_wrapper_"
	wrapperFuncParam  = "__beartype_func"
	wrapperPithName   = "__beartype_pith"
	wrapperCheckFunc  = "__beartype_check"
)

// renderWrapperSource emits the checker source a wrapper stands for. The
// text is what `expand` prints and what debug logging dumps; execution runs
// the equivalent compiled closure instead.
func renderWrapperSource(fn *runtime.Function, plan []check) string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	args := strings.Join(names, ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "fun %s%s(%s) {\n", wrapperNamePrefix, fn.Name, args)
	var ret *check
	for i := range plan {
		c := &plan[i]
		if c.index < 0 {
			ret = c
			continue
		}
		fmt.Fprintf(&b, "\t%s(%s, %s, %q)\n", wrapperCheckFunc, c.param, c.fragment, "parameter "+c.param)
	}
	if ret != nil {
		fmt.Fprintf(&b, "\tvar %s = %s(%s)\n", wrapperPithName, wrapperFuncParam, args)
		fmt.Fprintf(&b, "\t%s(%s, %s, %q)\n", wrapperCheckFunc, wrapperPithName, ret.fragment, "return")
		fmt.Fprintf(&b, "\treturn %s\n", wrapperPithName)
	} else {
		fmt.Fprintf(&b, "\treturn %s(%s)\n", wrapperFuncParam, args)
	}
	b.WriteString("}\n")
	return b.String()
}
