package cli

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// useColor reports whether ANSI colors should be emitted on w. It honors
// the NO_COLOR convention (https://no-color.org/) and only colors real
// terminals.
func useColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	term := os.Getenv("TERM")
	if term == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

func paint(w io.Writer, code, s string) string {
	if !useColor(w) {
		return s
	}
	var b strings.Builder
	b.WriteString(code)
	b.WriteString(s)
	b.WriteString(ansiReset)
	return b.String()
}
