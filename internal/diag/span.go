package diag

import "fmt"

// Span is an immutable source location: an absolute character offset plus
// length, and the 1-based line/column of its first character. A Span whose
// Len is zero is the "unknown" span, used when a diagnostic cannot be
// attributed to a precise range (e.g. an end-of-input error).
type Span struct {
	Start uint32
	Len   uint32
	Line  uint32
	Col   uint32
}

// NoSpan is the canonical unknown span.
var NoSpan = Span{}

// End returns Start+Len.
func (s Span) End() uint32 {
	return s.Start + s.Len
}

// Known returns whether this span carries real location information.
func (s Span) Known() bool {
	return s.Len > 0
}

func (s Span) String() string {
	if !s.Known() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// Covers builds the smallest span that contains both a and b. Both must
// share the same line/col coordinate space (i.e. come from the same source);
// the result carries the line/col of whichever span starts first.
func Covers(a, b Span) Span {
	if !a.Known() {
		return b
	}
	if !b.Known() {
		return a
	}

	first, second := a, b
	if b.Start < a.Start {
		first, second = b, a
	}

	end := first.End()
	if second.End() > end {
		end = second.End()
	}

	return Span{
		Start: first.Start,
		Len:   end - first.Start,
		Line:  first.Line,
		Col:   first.Col,
	}
}
