package agll

import (
	"fmt"
	"strings"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/lexer"
)

var blockStarters = map[string]bool{
	"{": true, "(": true, "[": true,
	"begin": true, "if": true, "case": true, "while": true, "for": true,
}

var blockTerminators = map[string]bool{
	";": true, "}": true, ")": true, "]": true,
	"end": true, "fi": true, "esac": true, "done": true,
}

const recoveryLookaheadTokens = 10

// recoveryRegion returns the [start, end) window error recovery is
// allowed to act within: left to the nearest unmatched block-starter (or
// the start of input), right to the matching block-terminator or 10
// tokens past pos, whichever comes first.
func recoveryRegion(tokens []lexer.Token, pos int) (int, int) {
	start := pos
	for start > 0 && !blockStarters[strings.ToLower(tokens[start-1].Lexeme)] {
		start--
	}
	end := pos
	limit := pos + recoveryLookaheadTokens
	if limit > len(tokens) {
		limit = len(tokens)
	}
	for end < limit && !blockTerminators[strings.ToLower(tokens[end].Lexeme)] {
		end++
	}
	if end < limit && blockTerminators[strings.ToLower(tokens[end].Lexeme)] {
		end++
	}
	return start, end
}

// RecoveryResult is the outcome of a successful error recovery: resume
// parsing currentRule's enclosing attempt from NewPos.
type RecoveryResult struct {
	Strategy string
	NewPos   int
	Score    int
	Diag     diag.Diagnostic
}

// recoverAt implements spec.md's three scored recovery strategies (Insert,
// Skip, Resync) and picks the highest-scoring one that applies; ok is
// false if every strategy scores at or below zero, meaning recovery
// itself failed and the parse should be aborted.
func recoverAt(fg *FlatGrammar, tokens []lexer.Token, rule string, pos int) (RecoveryResult, bool) {
	start, end := recoveryRegion(tokens, pos)
	follow := fg.Follow(rule)

	var best RecoveryResult
	haveBest := false
	consider := func(r RecoveryResult) {
		if !haveBest || r.Score > best.Score {
			best = r
			haveBest = true
		}
	}

	if expected := fg.First(rule); expected.Len() > 0 {
		elem := expected.Elements()[0]
		score := 100 + regionBonus(pos, start, end) + lookaheadBonus(fg, rule, tokens, pos)
		if followContains(follow, tokens, pos) {
			score += 50
		}
		consider(RecoveryResult{
			Strategy: "insert",
			NewPos:   pos,
			Score:    score,
			Diag: diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Warning,
				Code:    diag.CodeNoViableAlt,
				Message: fmt.Sprintf("inserted a missing %s before position %d to recover", elem, pos),
			},
		})
	}

	if pos < len(tokens) {
		skipPos := pos + 1
		score := 80 + regionBonus(skipPos, start, end) + lookaheadBonus(fg, rule, tokens, skipPos)
		if followContains(follow, tokens, skipPos) {
			score += 50
		}
		consider(RecoveryResult{
			Strategy: "skip",
			NewPos:   skipPos,
			Score:    score,
			Diag: diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Warning,
				Code:    diag.CodeNoViableAlt,
				Message: fmt.Sprintf("skipped unexpected token %q at position %d to recover", tokens[pos].Lexeme, pos),
			},
		})
	}

	if resyncPos, ok := findResyncPoint(follow, tokens, pos, end); ok {
		score := 60 + regionBonus(resyncPos, start, end) + lookaheadBonus(fg, rule, tokens, resyncPos)
		score += 50 // by construction resyncPos is in FOLLOW(rule)
		consider(RecoveryResult{
			Strategy: "resync",
			NewPos:   resyncPos,
			Score:    score,
			Diag: diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Warning,
				Code:    diag.CodeNoViableAlt,
				Message: fmt.Sprintf("resynchronized to position %d to recover", resyncPos),
			},
		})
	}

	if !haveBest || best.Score <= 0 {
		return RecoveryResult{}, false
	}
	return best, true
}

func regionBonus(pos, start, end int) int {
	if pos >= start && pos <= end {
		return 30
	}
	return -20
}

// lookaheadBonus counts how many of the next few tokens look like a
// plausible continuation (a member of FIRST(rule) or FOLLOW(rule)),
// scaled up to +60, as a cheap stand-in for spec's "bounded parse-ahead".
func lookaheadBonus(fg *FlatGrammar, rule string, tokens []lexer.Token, pos int) int {
	plausible := fg.First(rule).Copy()
	plausible.AddAll(fg.Follow(rule))

	count := 0
	for i := 0; i < 6 && pos+i < len(tokens); i++ {
		tok := tokens[pos+i]
		for _, elem := range plausible.Elements() {
			if firstElemMatches(elem, tok) {
				count++
				break
			}
		}
	}
	bonus := count * 10
	if bonus > 60 {
		bonus = 60
	}
	return bonus
}

func followContains(follow interface{ Elements() []string }, tokens []lexer.Token, pos int) bool {
	if pos >= len(tokens) {
		return false
	}
	tok := tokens[pos]
	for _, elem := range follow.Elements() {
		if firstElemMatches(elem, tok) {
			return true
		}
	}
	return false
}

func findResyncPoint(follow interface{ Elements() []string }, tokens []lexer.Token, pos, end int) (int, bool) {
	for i := pos; i < end && i < len(tokens); i++ {
		if followContains(follow, tokens, i) {
			return i, true
		}
	}
	return 0, false
}
