package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/arborix/cdtk/internal/diag"
)

// Tokenize runs the unified longest-match scanner of spec.md §4.1 over
// source: at every position it advances the merged DFA as far as possible,
// remembering the last accepting position and tag, and independently tries
// every fallback regex anchored at that position; it keeps the longer
// match, and on a length tie prefers the lower definition index. Ignored
// tokens are matched and consumed but never appended to the result.
func (l *Lexer) Tokenize(source string) ([]Token, diag.Collection, error) {
	if !l.built || l.scanner == nil {
		return nil, diag.Collection{}, fmt.Errorf("lexer: Tokenize called before Build")
	}

	var diags diag.Collection
	var tokens []Token

	runes := []rune(source)
	pos := 0
	byteOffset := 0
	line, col := uint32(1), uint32(1)

	for pos < len(runes) {
		match, ok := l.scanner.longestMatch(runes[pos:])
		if !ok {
			r := runes[pos]
			sp := diag.Span{Start: uint32(byteOffset), Len: uint32(utf8.RuneLen(r)), Line: line, Col: col}
			snippet, _ := diag.Snippet(runes, sp)
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageLex,
				Level:   diag.Error,
				Code:    diag.CodeUnrecognizedChar,
				Message: fmt.Sprintf("unrecognized character %q (U+%04X) near %q", r, r, snippet),
				Span:    sp,
				Suggestions: suggestionsFor(r),
			})
			advanceLineCol(r, &line, &col)
			byteOffset += utf8.RuneLen(r)
			pos++
			continue
		}

		lexemeRunes := runes[pos : pos+match.length]
		lexeme := string(lexemeRunes)
		sp := diag.Span{Start: uint32(byteOffset), Len: uint32(len(lexeme)), Line: line, Col: col}

		if !match.tag.ignored {
			tokens = append(tokens, Token{Type: intern(match.tag.name), Lexeme: intern(lexeme), Span: sp})
		}

		for _, r := range lexemeRunes {
			advanceLineCol(r, &line, &col)
		}
		byteOffset += len(lexeme)
		pos += match.length

		if l.opts.MaxTokens > 0 && len(tokens) >= l.opts.MaxTokens {
			diags.Add(diag.Diagnostic{
				Stage:   diag.StageLex,
				Level:   diag.Warning,
				Code:    diag.CodeTokenLimitExceeded,
				Message: fmt.Sprintf("token limit of %s exceeded; truncating scan", diag.Count(l.opts.MaxTokens)),
			})
			break
		}
	}

	return tokens, diags, nil
}

func advanceLineCol(r rune, line, col *uint32) {
	if r == '\n' {
		*line++
		*col = 1
		return
	}
	*col++
}

type scanMatch struct {
	tag    tokenTag
	length int
}

// longestMatch runs the DFA path and every fallback regex anchored at the
// start of input, and returns the longest of the two, preferring the lowest
// definition index on a tie.
func (s *scanner) longestMatch(input []rune) (scanMatch, bool) {
	best := scanMatch{}
	found := false

	if dfaTag, dfaLen, ok := s.runDFA(input); ok {
		best = scanMatch{tag: dfaTag, length: dfaLen}
		found = true
	}

	for _, fb := range s.fallbacks {
		n := fb.re.FindStringIndex(string(input))
		if n == nil || n[0] != 0 {
			continue
		}
		length := len([]rune(string(input)[:n[1]]))
		if length == 0 {
			continue
		}
		if !found || length > best.length || (length == best.length && fb.tag.index < best.tag.index) {
			best = scanMatch{tag: fb.tag, length: length}
			found = true
		}
	}

	return best, found
}

// runDFA never returns a zero-length accept: a nullable token pattern
// (X=a*, X=a?) makes the DFA's start state accepting, and a zero-length
// match would never advance pos in Tokenize, hanging on any input that
// doesn't happen to match something longer. A nullable pattern can only
// ever contribute a match when it consumes at least one rune.
func (s *scanner) runDFA(input []rune) (tokenTag, int, bool) {
	state := s.dfa.Start
	lastAcceptLen := -1
	var lastTag tokenTag

	for i, r := range input {
		symbol := s.alphabet.SymbolFor(r)
		next := s.dfa.Next(state, symbol)
		if next == "" {
			break
		}
		state = next
		if s.dfa.IsAccepting(state) {
			lastAcceptLen = i + 1
			lastTag = s.dfa.GetValue(state)
		}
	}

	if lastAcceptLen <= 0 {
		return tokenTag{}, 0, false
	}
	return lastTag, lastAcceptLen, true
}

// suggestionsFor proposes a fix based on the offending character's class,
// per spec.md §4.1's "suggested fixes (whitespace, identifier, number,
// symbol) based on the char class".
func suggestionsFor(r rune) []string {
	switch {
	case r == ' ' || r == '\t':
		return []string{"this looks like whitespace; check for an unescaped tab or non-breaking space"}
	case r >= '0' && r <= '9':
		return []string{"this looks like a digit; check that a number token definition covers it"}
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_':
		return []string{"this looks like an identifier character; check that an identifier token definition covers it"}
	default:
		return []string{"check whether a token definition should match this symbol"}
	}
}
