package agll

import "github.com/arborix/cdtk/internal/util"

const endOfInput = "$"

// flatAnalysis holds the nullable/FIRST/FOLLOW tables computed directly
// over a FlatGrammar's Steps, rather than reusing grammar.Grammar's own
// tables: flattening introduces synthetic helper rules (for Optional,
// Repeat, and nested Choice) that the source grammar.Grammar has never
// heard of, so the predictor needs its own fixed-point pass that covers
// every rule flatten.go produced, original and synthetic alike.
type flatAnalysis struct {
	nullable map[string]bool
	first    map[string]util.StringSet
	follow   map[string]util.StringSet
}

func (fg *FlatGrammar) ensureAnalysis() {
	if fg.analysis != nil {
		return
	}
	a := &flatAnalysis{
		nullable: map[string]bool{},
		first:    map[string]util.StringSet{},
		follow:   map[string]util.StringSet{},
	}
	for name := range fg.Rules {
		a.first[name] = util.NewStringSet()
		a.follow[name] = util.NewStringSet()
	}
	if fg.Start != "" {
		a.follow[fg.Start].Add(endOfInput)
	}

	changed := true
	for changed {
		changed = false
		for name, alts := range fg.Rules {
			if a.nullable[name] {
				continue
			}
			for _, alt := range alts {
				if stepsNullable(alt.Steps, a.nullable) {
					a.nullable[name] = true
					changed = true
					break
				}
			}
		}
	}

	changed = true
	for changed {
		changed = false
		for name, alts := range fg.Rules {
			before := a.first[name].Len()
			for _, alt := range alts {
				firstOfSteps(alt.Steps, a, a.first[name])
			}
			if a.first[name].Len() != before {
				changed = true
			}
		}
	}

	changed = true
	for changed {
		changed = false
		for name, alts := range fg.Rules {
			for _, alt := range alts {
				for i, step := range alt.Steps {
					if step.Kind != StepNonTerminal {
						continue
					}
					rest := alt.Steps[i+1:]
					restFirst := util.NewStringSet()
					restNullable := stepsNullable(rest, a.nullable)
					for _, s := range rest {
						if s.Kind == StepTerminal {
							restFirst.Add(s.firstElem())
							break
						}
						restFirst.AddAll(a.first[s.Text])
						if !a.nullable[s.Text] {
							break
						}
					}
					before := a.follow[step.Text].Len()
					a.follow[step.Text].AddAll(restFirst)
					if restNullable {
						a.follow[step.Text].AddAll(a.follow[name])
					}
					if a.follow[step.Text].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	fg.analysis = a
}

func stepsNullable(steps []Step, nullable map[string]bool) bool {
	for _, s := range steps {
		if s.Kind == StepTerminal {
			return false
		}
		if !nullable[s.Text] {
			return false
		}
	}
	return true
}

func firstOfSteps(steps []Step, a *flatAnalysis, out util.StringSet) {
	for _, s := range steps {
		if s.Kind == StepTerminal {
			out.Add(s.firstElem())
			return
		}
		out.AddAll(a.first[s.Text])
		if !a.nullable[s.Text] {
			return
		}
	}
}

// First returns FIRST(rule) over the flat grammar.
func (fg *FlatGrammar) First(rule string) util.StringSet {
	fg.ensureAnalysis()
	return fg.analysis.first[rule]
}

// Follow returns FOLLOW(rule) over the flat grammar.
func (fg *FlatGrammar) Follow(rule string) util.StringSet {
	fg.ensureAnalysis()
	return fg.analysis.follow[rule]
}

// IsNullable reports whether rule can derive the empty string.
func (fg *FlatGrammar) IsNullable(rule string) bool {
	fg.ensureAnalysis()
	return fg.analysis.nullable[rule]
}
