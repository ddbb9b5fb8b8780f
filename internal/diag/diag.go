// Package diag implements CDTk's diagnostics: the structured values that
// flow out of every lex/grammar/parse stage instead of format strings printed
// directly to a writer (rendering those values for a human is the declarative
// layer's job, per the core/front-end split this toolkit follows).
package diag

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dustin/go-humanize"
)

// Level is the severity of a Diagnostic.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Stage is the pipeline phase that produced a Diagnostic.
type Stage int

const (
	StageLex Stage = iota
	StageGrammar
	StageParse
)

func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageGrammar:
		return "grammar"
	case StageParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Code is a short, stable identifier for a class of diagnostic, so callers
// can switch on it without depending on Message's wording.
type Code string

const (
	CodeUnrecognizedChar    Code = "unrecognized-char"
	CodeRegexTimeout        Code = "regex-timeout"
	CodeTokenLimitExceeded  Code = "token-limit-exceeded"
	CodeAutoInjectedWS      Code = "auto-injected-whitespace"
	CodePatternParseFailure Code = "pattern-parse-failure"
	CodeDuplicateRule       Code = "duplicate-rule"
	CodeUndefinedReference  Code = "undefined-reference"
	CodeUnreachableRule     Code = "unreachable-rule"
	CodeUnremovableLeftRec  Code = "unremovable-left-recursion"
	CodeLiteralNotProduced  Code = "literal-not-produced"
	CodeNullableStart       Code = "nullable-start-rule"
	CodeNoViableAlt         Code = "no-viable-alternative"
	CodeUnexpectedEOF       Code = "unexpected-eof"
	CodeRecoveryExhausted   Code = "recovery-region-exhausted"
	CodeParseStepCap        Code = "parse-step-cap-exceeded"
	CodeGLLIterationCap     Code = "gll-iteration-cap-exceeded"
	CodeInternalError       Code = "internal-error"
	CodeAmbiguousParse      Code = "ambiguous-parse"
	// CodeSemantic is declared for the contract in spec.md §7 ("SemanticError
	// ... not produced by the core itself") so the declarative layer has a
	// stable Stage/Code pair to reuse; CDTk never emits it.
	CodeSemantic Code = "semantic-error"
)

// Diagnostic is a single structured message produced by a pipeline stage.
type Diagnostic struct {
	Stage       Stage
	Level       Level
	Code        Code
	Message     string
	Span        Span
	Suggestions []string

	// ParseID correlates a StageParse diagnostic with the Parse call that
	// produced it (a google/uuid v4 string); empty for lex/grammar-stage
	// diagnostics, which have no concurrent-call ambiguity to resolve.
	ParseID string
}

func (d Diagnostic) dedupKey() string {
	return fmt.Sprintf("%d|%d|%s|%d:%d", d.Stage, d.Level, d.Message, d.Span.Start, d.Span.Len)
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s:%s] %s", d.Stage, d.Level, d.Message)
	if d.Span.Known() {
		fmt.Fprintf(&sb, " (at %s)", d.Span)
	}
	for _, s := range d.Suggestions {
		fmt.Fprintf(&sb, "\n  suggestion: %s", s)
	}
	return sb.String()
}

// Collection is an ordered, deduplicated set of diagnostics. Deduplication is
// by (stage, level, message, span) exactly as spec.md §7/§8 require; a later
// Add of a diagnostic matching an already-recorded one is dropped silently.
type Collection struct {
	items []Diagnostic
	seen  map[string]bool
}

// Add appends d unless an identical (stage, level, message, span) diagnostic
// has already been recorded.
func (c *Collection) Add(d Diagnostic) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	key := d.dedupKey()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.items = append(c.items, d)
}

// Merge appends every diagnostic from other, respecting dedup.
func (c *Collection) Merge(other Collection) {
	for _, d := range other.items {
		c.Add(d)
	}
}

// Items returns the diagnostics in the order they were added.
func (c Collection) Items() []Diagnostic {
	return c.items
}

func (c Collection) Len() int {
	return len(c.items)
}

// HasErrors reports whether any recorded diagnostic is at Error level. Per
// spec.md §7, the presence of any Error means no output was produced.
func (c Collection) HasErrors() bool {
	for _, d := range c.items {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Count formats n using comma-grouped digits, for diagnostics that report a
// cap or limit being exceeded (e.g. "GLL iteration cap (1,000,000) exceeded").
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Table renders rows as a bordered table, used for the FIRST/FOLLOW set
// listing attached as a suggestion to the nullable-start grammar diagnostic.
func Table(headers []string, rows [][]string) string {
	data := make([][]string, 0, len(rows)+1)
	data = append(data, headers)
	data = append(data, rows...)

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
