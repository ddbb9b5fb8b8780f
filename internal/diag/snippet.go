package diag

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// snippetRadius is how many runes of context are kept on either side of a
// span when rendering a source snippet for a diagnostic.
const snippetRadius = 20

// Snippet renders the region of src around sp, truncated to snippetRadius
// runes on each side and with control characters escaped so a stray tab or
// newline inside the offending text doesn't corrupt the rendered line. The
// second return value is the rune offset of sp's start within the returned
// string, for callers that want to place a caret under it.
func Snippet(src []rune, sp Span) (string, int) {
	if !sp.Known() {
		return "", 0
	}

	start := int(sp.Start)
	end := int(sp.End())
	if start > len(src) {
		start = len(src)
	}
	if end > len(src) {
		end = len(src)
	}

	lo := start - snippetRadius
	truncatedLeft := lo < 0
	if truncatedLeft {
		lo = 0
	}
	hi := end + snippetRadius
	truncatedRight := hi > len(src)
	if truncatedRight {
		hi = len(src)
	}

	var sb strings.Builder
	if truncatedLeft {
		sb.WriteString("...")
	}
	caretOffset := sb.Len()
	for _, r := range src[lo:hi] {
		sb.WriteString(escapeRune(r))
	}
	if truncatedRight {
		sb.WriteString("...")
	}

	return sb.String(), caretOffset + (start - lo)
}

// escapeRune renders r as a visible, single-line representation: printable
// runes pass through, control characters become a backslash escape, and
// East-Asian wide runes are left as-is since FoldWidth is only applied to
// suggestion text, not snippets.
func escapeRune(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	}
	if unicode.IsControl(r) {
		return fmt.Sprintf("\\x%02X", r)
	}
	return string(r)
}

// FoldWidth normalizes fullwidth/halfwidth variants in s to their canonical
// narrow form, used when comparing suggested identifiers against user input
// that may have been typed on an IME expecting fullwidth punctuation.
func FoldWidth(s string) string {
	return width.Narrow.String(s)
}
