package agll

import "github.com/arborix/cdtk/internal/util"

// firstOfAlt computes FIRST(alt) over a flattened alternative's steps,
// using the flat grammar's own per-rule FIRST/nullable tables (see
// analysis.go) for NonTerminal steps, so synthetic helper rules produced
// by flattening are covered alongside the original ones. The bool result
// reports whether alt itself is nullable (an empty Steps list, or every
// step nullable).
func firstOfAlt(fg *FlatGrammar, alt Alt) (util.StringSet, bool) {
	out := util.NewStringSet()
	for _, step := range alt.Steps {
		if step.Kind == StepTerminal {
			out.Add(step.firstElem())
			return out, false
		}
		out.AddAll(fg.First(step.Text))
		if !fg.IsNullable(step.Text) {
			return out, false
		}
	}
	return out, true
}
