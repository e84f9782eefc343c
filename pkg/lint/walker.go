package lint

import (
	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/selector"
)

// WalkOptions parameterizes one traversal for a particular grammar.
type WalkOptions struct {
	// TypeKey is the attribute key holding the node type tag.
	TypeKey string

	// TypeOf resolves type tags during selector matching. Defaults to
	// reading TypeKey. Sub-tree walks pass a resolver that falls back to the
	// host grammar's key for ancestors beyond the grammar boundary.
	TypeOf selector.TypeOf

	// ChildKey is the attribute key holding the ordered child list. Nodes
	// without a list under this key have their remaining attributes scanned
	// for nested typed nodes instead.
	ChildKey string

	// Transform, when set, maps each node before matching. Returning nil
	// skips the node and its subtree.
	Transform func(n *flast.Node) *flast.Node

	// Ancestry seeds the traversal's ancestor stack, ordered
	// nearest-ancestor-first. Used when walking an embedded sub-tree so its
	// nodes see the host node and the host's ancestors.
	Ancestry []*flast.Node

	// EnterHook, when set, runs on node entry after all enter visitors.
	// The sub-parser coordinator installs itself here.
	EnterHook func(n *flast.Node, ancestry []*flast.Node)
}

// Walker performs selector-dispatched depth-first traversals. It caches the
// compiled visitor index between walks and rebuilds it only when the
// selector map's fingerprint changes, so repeated walks (fix rounds,
// per-host-node sub-tree walks) skip recompilation.
//
// A Walker is not safe for concurrent use.
type Walker struct {
	fp    string
	index *visitorIndex
}

// Walk traverses root depth-first, firing enter visitors before descending
// into children and exit visitors after. Candidate handlers come from the
// index bucket for the node's type plus the universal bucket; each candidate
// selector is then re-tested against the node and its current ancestry.
func (w *Walker) Walk(root *flast.Node, selectors map[string][]Visitor, opts WalkOptions) error {
	if fp := fingerprint(selectors); w.index == nil || fp != w.fp {
		idx, err := buildIndex(selectors)
		if err != nil {
			return err
		}
		w.fp = fp
		w.index = idx
	}

	if opts.TypeOf == nil {
		opts.TypeOf = selector.KeyType(opts.TypeKey)
	}

	ancestry := make([]*flast.Node, len(opts.Ancestry))
	copy(ancestry, opts.Ancestry)

	w.walk(root, ancestry, opts)
	return nil
}

func (w *Walker) walk(node *flast.Node, ancestry []*flast.Node, opts WalkOptions) {
	if opts.Transform != nil {
		node = opts.Transform(node)
	}
	if node == nil {
		return
	}

	var parent *flast.Node
	if len(ancestry) > 0 {
		parent = ancestry[0]
	}

	handlers := w.index.handlersFor(opts.TypeOf(node))
	w.dispatch(handlers, false, node, parent, ancestry, opts.TypeOf)
	if opts.EnterHook != nil {
		opts.EnterHook(node, ancestry)
	}

	children := node.ChildList(opts.ChildKey)
	if children == nil {
		children = node.NestedNodes(opts.TypeKey, opts.ChildKey)
	}
	if len(children) > 0 {
		childAncestry := append([]*flast.Node{node}, ancestry...)
		for _, child := range children {
			w.walk(child, childAncestry, opts)
		}
	}

	// Leave phase. The ancestry no longer includes the node being left, so
	// exit selectors see the same context enter selectors did.
	w.dispatch(handlers, true, node, parent, ancestry, opts.TypeOf)
}

func (w *Walker) dispatch(handlers []*handler, exit bool, node, parent *flast.Node, ancestry []*flast.Node, typeOf selector.TypeOf) {
	for _, h := range handlers {
		if h.exit != exit {
			continue
		}
		if h.sel.MatchesFunc(node, ancestry, typeOf) {
			h.visitor(node, parent, ancestry)
		}
	}
}
