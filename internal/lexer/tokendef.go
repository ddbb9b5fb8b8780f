package lexer

import (
	"time"

	"github.com/cnf/structhash"
)

// TokenDef is one registered token definition. Definitions are immutable
// once passed to New: priority on a length tie goes to whichever definition
// was registered first (lower Index wins).
type TokenDef struct {
	Name    string
	Pattern string
	Ignored bool
	Timeout time.Duration
	Index   int
}

// defaultRegexTimeout is the default Options.RegexTimeout, which the Lexer
// copies into the Timeout of every definition that leaves it zero. The
// scanner does not read Timeout: a fallback-regex match attempt runs to
// completion, and no timeout diagnostic is produced.
const defaultRegexTimeout = 250 * time.Millisecond

// cacheEntry is the hashable projection of a TokenDef used to fingerprint a
// built Scanner, so a Lexer can tell whether its compiled scanner is still
// valid for its current set of definitions.
type cacheEntry struct {
	Name    string
	Pattern string
	Ignored bool
}

// definitionHash combines each definition's (name, pattern, ignored) triple
// via the classic `31*h + x` accumulator, hashing each field with
// structhash (also used by internal/sppf for packed-node signatures) to
// fold variable-length strings into a single comparable int.
func definitionHash(defs []TokenDef) (uint64, error) {
	var h uint64
	for _, d := range defs {
		entry := cacheEntry{Name: d.Name, Pattern: d.Pattern, Ignored: d.Ignored}
		digest, err := structhash.Hash(entry, 1)
		if err != nil {
			return 0, err
		}
		for _, b := range []byte(digest) {
			h = 31*h + uint64(b)
		}
	}
	return h, nil
}
