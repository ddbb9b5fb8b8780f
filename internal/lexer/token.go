// Package lexer compiles a set of named token definitions into a unified
// DFA-backed scanner: Thompson construction per pattern, NFA union, subset
// construction, Hopcroft minimization, with a per-definition regex fallback
// for patterns regexir can't express as a finite automaton.
package lexer

import (
	"sync"

	"github.com/arborix/cdtk/internal/diag"
)

// Token is a single scanned token instance. Lexeme strings are interned
// process-wide (see intern below) so repeated identical lexemes across many
// parses share one backing string.
type Token struct {
	Type   string
	Lexeme string
	Span   diag.Span
}

var internTable sync.Map // string -> string

// intern deduplicates s against the process-wide intern table.
func intern(s string) string {
	if v, ok := internTable.Load(s); ok {
		return v.(string)
	}
	internTable.LoadOrStore(s, s)
	return s
}
