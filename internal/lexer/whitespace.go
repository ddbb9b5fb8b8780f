package lexer

import "strings"

// maybeInjectWhitespace implements spec.md §4.1's auto-inject heuristic: if
// no ignored definition matches the "whitespace" pattern family but some
// definition's pattern references a letter/digit/word class, synthesize an
// ignored `\s+` token appended at lowest priority. Returns the (possibly
// unchanged) definition slice and a non-empty note when injection happened.
func maybeInjectWhitespace(defs []TokenDef) ([]TokenDef, string) {
	hasWhitespaceHandling := false
	referencesWordChars := false

	for _, d := range defs {
		if d.Ignored && looksLikeWhitespacePattern(d.Pattern) {
			hasWhitespaceHandling = true
		}
		if referencesWordCharacters(d.Pattern) {
			referencesWordChars = true
		}
	}

	if hasWhitespaceHandling || !referencesWordChars {
		return defs, ""
	}

	injected := make([]TokenDef, len(defs), len(defs)+1)
	copy(injected, defs)
	injected = append(injected, TokenDef{
		Name:    "__auto_whitespace__",
		Pattern: `\s+`,
		Ignored: true,
	})

	return injected, "no whitespace token was defined; auto-injected an ignored `\\s+` token at lowest priority"
}

func looksLikeWhitespacePattern(pattern string) bool {
	return strings.Contains(pattern, `\s`) || strings.Contains(pattern, " \\t") || pattern == " +" || strings.Contains(pattern, `\n`)
}

func referencesWordCharacters(pattern string) bool {
	if strings.Contains(pattern, `\w`) {
		return true
	}
	for _, r := range pattern {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}
