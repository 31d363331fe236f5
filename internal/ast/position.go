package ast

import (
	"github.com/jpetrucciani/beartype/internal/token"
)

// Span is the source extent of a node: start and end positions, both
// 1-based. A zero Span means the node has no recorded position.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// IsZero reports whether the span carries no position information.
func (s Span) IsZero() bool { return s == Span{} }

// spanned carries a node's source extent. Embedded by every node type;
// the parser records extents via SetSpan, synthesized nodes receive
// theirs via CopySpan.
type spanned struct {
	span Span
}

func (s *spanned) Span() Span      { return s.span }
func (s *spanned) SetSpan(sp Span) { s.span = sp }

// SpanTokens builds a span stretching from the start of first to the
// end of last. The end column is exclusive.
func SpanTokens(first, last token.Token) Span {
	return Span{
		StartLine: first.Line,
		StartCol:  first.Column,
		EndLine:   last.Line,
		EndCol:    last.Column + len(last.Lexeme),
	}
}

// CopySpan copies the complete source extent of src onto dst in O(1).
// Synthesized nodes take the extent of the construct they were derived
// from so error reporting and printing stay consistent with the
// surrounding code. Nil nodes and spanless sources are ignored.
func CopySpan(dst, src Node) {
	if dst == nil || src == nil {
		return
	}
	sp := src.Span()
	if sp.IsZero() {
		return
	}
	dst.SetSpan(sp)
}
