package lexer

import "time"

// Options configures a Lexer's build and scan behavior, per spec.md §6's
// lexer interface: `{ max_tokens, preserve_newlines, safe_mode,
// regex_timeout, use_non_backtracking, use_dfa_optimisation }`.
// MaxTokens caps the number of tokens Tokenize returns, UseDFAOptimisation
// selects DFA minimisation, and RegexTimeout becomes the Timeout of every
// definition that leaves it zero. PreserveNewlines, SafeMode and
// UseNonBacktracking are not read by the lexer.
type Options struct {
	MaxTokens          int
	PreserveNewlines   bool
	SafeMode           bool
	RegexTimeout       time.Duration
	UseNonBacktracking bool
	UseDFAOptimisation bool
}

// DefaultOptions returns the option set a Lexer uses when none is supplied.
func DefaultOptions() Options {
	return Options{
		MaxTokens:          0,
		PreserveNewlines:   true,
		SafeMode:           true,
		RegexTimeout:       defaultRegexTimeout,
		UseNonBacktracking: false,
		UseDFAOptimisation: true,
	}
}
