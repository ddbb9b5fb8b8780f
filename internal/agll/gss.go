package agll

import (
	"fmt"

	"github.com/arborix/cdtk/internal/sppf"
)

// returnSlot identifies where to resume parsing in a caller once the rule
// it called finishes: which alternative of which rule, and the step index
// right after the call site.
type returnSlot struct {
	Rule string
	Alt  int
	Pos  int
}

func (s returnSlot) String() string {
	return fmt.Sprintf("%s/%d@%d", s.Rule, s.Alt, s.Pos)
}

// accum is the parser's own lightweight stand-in for a Descriptor's
// "sppf_fragment": the ordered children (and any Named-capture labels)
// matched so far within the current alternative. It's kept separate from
// *sppf.Node (rather than threading an actual Intermediate node through
// every step, the way a GSS node pointing straight at SPPF would) so
// that a capture on an early child of a long alternative is never lost;
// see sppf.Forest.AddIntermediate's doc comment for the same concern at
// the forest layer.
type accum struct {
	children []*sppf.Node
	captures []string
}

// extend returns a new accum with child appended (a nil receiver is
// treated as empty), never mutating a, since many in-flight descriptors
// can share a common prefix.
func (a *accum) extend(child *sppf.Node, capture string) *accum {
	if a == nil {
		return &accum{children: []*sppf.Node{child}, captures: []string{capture}}
	}
	children := append(append([]*sppf.Node(nil), a.children...), child)
	captures := append(append([]string(nil), a.captures...), capture)
	return &accum{children: children, captures: captures}
}

// gssEdge is one edge of the graph-structured stack: "once the rule the
// owning node represents completes, resume in target's context,
// combining fragment (what had already been parsed at the call site)
// with the rule's result under capture."
type gssEdge struct {
	target   *gssNode
	fragment *accum
	capture  string
}

// gssNode is a GSS node keyed by (label, pos), where label is the return
// slot in the caller: every call that would resume at the same slot from
// the same input position shares one node, so the called rule's body is
// explored once per (return slot, position). Calls of the same rule from
// different call sites get different nodes.
type gssNode struct {
	label returnSlot
	pos   int

	edges  []*gssEdge
	popped []*sppf.Node // every distinct completed derivation the rule represented by this node has produced so far
}

func gssKey(label returnSlot, pos int) string {
	return fmt.Sprintf("%s|%d", label, pos)
}

// gss owns the set of GSS nodes live during one Parse call.
type gss struct {
	nodes map[string]*gssNode
	root  *gssNode
}

// bottomLabel is the GSS root's own label. Nothing ever calls into the
// root (it represents "below the start rule, nothing"), so its label is
// never consulted by pop/create; it only needs to be a key distinct from
// any real rule name.
var bottomLabel = returnSlot{Rule: ""}

func newGSS() *gss {
	root := &gssNode{label: bottomLabel, pos: 0}
	return &gss{
		nodes: map[string]*gssNode{gssKey(bottomLabel, 0): root},
		root:  root,
	}
}

// popContinuation is one (slot, callerNode, pos, fragment) tuple to
// resume as a Descriptor after a rule completes.
type popContinuation struct {
	slot     returnSlot
	caller   *gssNode
	pos      int
	fragment *accum
}

// create returns the GSS node for (label, pos), creating it if needed,
// and records an edge from it back to caller (deduped by (target,
// fragment, capture)). If the node already had recorded results (the
// rule was already fully parsed from this position by an earlier
// caller), those results are immediately replayed as popContinuations:
// omitting this step is the single most common correctness bug in a
// hand-rolled GLL implementation, since without it a call site that
// joins a derivation already completed elsewhere would simply never be
// resumed.
func (s *gss) create(caller *gssNode, label returnSlot, pos int, fragment *accum, capture string) (v *gssNode, replays []popContinuation) {
	key := gssKey(label, pos)
	v, existed := s.nodes[key]
	if !existed {
		v = &gssNode{label: label, pos: pos}
		s.nodes[key] = v
	}

	for _, e := range v.edges {
		if e.target == caller && e.fragment == fragment && e.capture == capture {
			return v, nil
		}
	}
	v.edges = append(v.edges, &gssEdge{target: caller, fragment: fragment, capture: capture})
	if existed {
		for _, z := range v.popped {
			replays = append(replays, popContinuation{
				slot:     label,
				caller:   caller,
				pos:      z.Right,
				fragment: fragment.extend(z, capture),
			})
		}
	}
	return v, replays
}

// pop records that v's rule produced result z, and returns the
// continuations to resume for every edge into v. An identical z recorded
// twice for the same node (the worklist revisiting a completed
// derivation) is a no-op.
func (s *gss) pop(v *gssNode, z *sppf.Node) []popContinuation {
	for _, existing := range v.popped {
		if existing == z {
			return nil
		}
	}
	v.popped = append(v.popped, z)

	var out []popContinuation
	for _, e := range v.edges {
		out = append(out, popContinuation{
			slot:     v.label,
			caller:   e.target,
			pos:      z.Right,
			fragment: e.fragment.extend(z, e.capture),
		})
	}
	return out
}
