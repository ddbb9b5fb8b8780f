package agll

import (
	"fmt"

	"github.com/arborix/cdtk/internal/diag"
	"github.com/arborix/cdtk/internal/lexer"
	"github.com/arborix/cdtk/internal/sppf"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// maxGLLIterations bounds the worklist loop; exceeding it is a hard
// parse failure rather than a hang.
const maxGLLIterations = 1_000_000

// Descriptor is one pending unit of GLL work: resume at Slot in the
// context of Node, having consumed input up to Pos, with Fragment
// holding everything matched so far in the current alternative.
type Descriptor struct {
	Slot     returnSlot
	Node     *gssNode
	Pos      int
	Fragment *accum
}

func descKey(d Descriptor) string {
	return fmt.Sprintf("%p|%s|%d", d.Node, d.Slot, d.Pos)
}

// engine runs the GLL worklist algorithm of spec.md's AG-LL parser over
// one token stream, building a Shared Packed Parse Forest as it goes.
// One engine is scoped to a single Parse call; its GSS, forest, and
// dedup set are discarded once Parse returns, matching the scanner/
// parser's "per-parse state is cleared before the next parse" lifecycle.
type engine struct {
	fg     *FlatGrammar
	forest *sppf.Forest
	gss    *gss
	queue  *linkedlistqueue.Queue
	seen   map[string]bool
	diags  diag.Collection

	maxGSSDepth int
}

func newEngine(fg *FlatGrammar) *engine {
	return &engine{
		fg:     fg,
		forest: sppf.NewForest(),
		gss:    newGSS(),
		queue:  linkedlistqueue.New(),
		seen:   map[string]bool{},
	}
}

func (e *engine) enqueue(d Descriptor) {
	key := descKey(d)
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.queue.Enqueue(d)
}

// run parses tokens against start from position 0 and returns the forest
// root (nil if no derivation was found) plus any diagnostics raised
// along the way (the iteration-cap guard, and an internal error if the
// forest rejects a completed derivation).
func (e *engine) run(start string, tokens []lexer.Token) (*sppf.Node, diag.Collection) {
	for i := range e.fg.Rules[start] {
		e.enqueue(Descriptor{Slot: returnSlot{Rule: start, Alt: i, Pos: 0}, Node: e.gss.root, Pos: 0})
	}

	iterations := 0
	for !e.queue.Empty() {
		iterations++
		if iterations > maxGLLIterations {
			e.diags.Add(diag.Diagnostic{
				Stage:   diag.StageParse,
				Level:   diag.Error,
				Code:    diag.CodeGLLIterationCap,
				Message: "GLL worklist exceeded the 1,000,000 iteration cap",
			})
			break
		}
		raw, _ := e.queue.Dequeue()
		e.process(raw.(Descriptor), tokens)
	}

	if root := e.forest.FindSymbol(start, 0, len(tokens)); root != nil {
		e.forest.SetRoot(root)
	}
	return e.forest.Root(), e.diags
}

func (e *engine) process(d Descriptor, tokens []lexer.Token) {
	alts := e.fg.Rules[d.Slot.Rule]
	if d.Slot.Alt >= len(alts) {
		return
	}
	alt := alts[d.Slot.Alt]

	if d.Slot.Pos >= len(alt.Steps) {
		e.completeRule(d, alt)
		return
	}

	step := alt.Steps[d.Slot.Pos]
	if step.Kind == StepTerminal {
		e.matchTerminal(d, step, tokens)
		return
	}
	e.callNonTerminal(d, step)
}

func (e *engine) completeRule(d Descriptor, alt Alt) {
	sym, err := e.forest.AddSymbol(d.Slot.Rule, alt.Label, d.Node.pos, d.Pos, fragChildren(d.Fragment), fragCaptures(d.Fragment))
	if err != nil {
		e.diags.Add(diag.Diagnostic{
			Stage:   diag.StageParse,
			Level:   diag.Error,
			Code:    diag.CodeInternalError,
			Message: fmt.Sprintf("building forest node for %q: %s", d.Slot.Rule, err),
		})
		return
	}
	for _, cont := range e.gss.pop(d.Node, sym) {
		e.enqueue(Descriptor{Slot: cont.slot, Node: cont.caller, Pos: cont.pos, Fragment: cont.fragment})
	}
}

func (e *engine) matchTerminal(d Descriptor, step Step, tokens []lexer.Token) {
	if d.Pos >= len(tokens) {
		return
	}
	tok := tokens[d.Pos]
	if !step.Matches(tok) {
		return
	}
	leaf := e.forest.AddTerminal(tok.Type, tok.Lexeme, d.Pos, d.Pos+1)
	e.enqueue(Descriptor{
		Slot:     returnSlot{Rule: d.Slot.Rule, Alt: d.Slot.Alt, Pos: d.Slot.Pos + 1},
		Node:     d.Node,
		Pos:      d.Pos + 1,
		Fragment: d.Fragment.extend(leaf, step.Capture),
	})
}

func (e *engine) callNonTerminal(d Descriptor, step Step) {
	nextSlot := returnSlot{Rule: d.Slot.Rule, Alt: d.Slot.Alt, Pos: d.Slot.Pos + 1}
	v, replays := e.gss.create(d.Node, nextSlot, d.Pos, d.Fragment, step.Capture)
	if depth := e.gssDepthFrom(v); depth > e.maxGSSDepth {
		e.maxGSSDepth = depth
	}
	for _, cont := range replays {
		e.enqueue(Descriptor{Slot: cont.slot, Node: cont.caller, Pos: cont.pos, Fragment: cont.fragment})
	}
	for i := range e.fg.Rules[step.Text] {
		e.enqueue(Descriptor{Slot: returnSlot{Rule: step.Text, Alt: i, Pos: 0}, Node: v, Pos: d.Pos})
	}
}

// gssDepthFrom walks v's edges back toward the root, used only to feed
// Controller metrics; the GSS is a DAG so this follows the first edge at
// each step rather than exploring every path.
func (e *engine) gssDepthFrom(v *gssNode) int {
	depth := 0
	cur := v
	for len(cur.edges) > 0 && depth < 10_000 {
		cur = cur.edges[0].target
		depth++
	}
	return depth
}

func fragChildren(a *accum) []*sppf.Node {
	if a == nil {
		return nil
	}
	return a.children
}

func fragCaptures(a *accum) []string {
	if a == nil {
		return nil
	}
	return a.captures
}
