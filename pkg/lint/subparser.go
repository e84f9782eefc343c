package lint

import (
	"fmt"

	"github.com/yaklabco/fllint/pkg/flast"
	"github.com/yaklabco/fllint/pkg/selector"
)

// SubParseFunc parses an embedded grammar fragment. source is the slice of
// the main text to parse, absOffset its absolute byte offset, line the
// zero-based line holding that offset and lineStart the absolute offset of
// that line's start. Returned trees must carry absolute byte offsets so
// positions resolve without per-grammar math.
type SubParseFunc func(source string, absOffset, line, lineStart int) (*flast.Node, error)

// ParserDescriptor describes an embedded grammar: how to parse it out of a
// host node and how to traverse the resulting sub-tree.
type ParserDescriptor struct {
	// Grammar names the embedded grammar. One parse per (host node, grammar)
	// is guaranteed per lint invocation.
	Grammar string

	// Parse produces the sub-tree.
	Parse SubParseFunc

	// TypeKey and ChildKey are the sub-grammar's attribute keys.
	TypeKey  string
	ChildKey string

	// StartOffset and EndOffset extract the embedded fragment's byte range
	// from the host node. When nil, the host node's own span is used.
	StartOffset func(host *flast.Node) (int, bool)
	EndOffset   func(host *flast.Node) (int, bool)

	// Transform, when set, maps sub-tree nodes during the walk.
	Transform func(n *flast.Node) *flast.Node
}

type subParserEntry struct {
	sel  *selector.Selector
	desc ParserDescriptor
}

// subTreeKey identifies one embedded parse: pointer identity of the host
// node plus the grammar name.
type subTreeKey struct {
	host    *flast.Node
	grammar string
}

// RegisterSubParser arranges for nodes matching sel to have desc's grammar
// parsed out of them and the sub-tree walked transparently with the same
// rule visitors.
func (l *Linter) RegisterSubParser(sel string, desc ParserDescriptor) error {
	compiled, err := selector.Parse(sel)
	if err != nil {
		return fmt.Errorf("register sub-parser %q: %w", desc.Grammar, err)
	}
	if desc.Grammar == "" || desc.Parse == nil {
		return fmt.Errorf("sub-parser descriptor needs a grammar name and a parse function")
	}
	if desc.TypeKey == "" {
		desc.TypeKey = flast.DefaultTypeKey
	}
	if desc.ChildKey == "" {
		desc.ChildKey = flast.DefaultChildKey
	}

	l.subParsers = append(l.subParsers, subParserEntry{sel: compiled, desc: desc})
	return nil
}

// enterHook returns the coordinator hook for a walk whose type tags resolve
// through typeOf. It tests each registered descriptor's selector against the
// entered node and, on a match, parses and immediately walks the embedded
// sub-tree before the host walk continues.
func (l *Linter) enterHook(typeOf selector.TypeOf) func(node *flast.Node, ancestry []*flast.Node) {
	return func(node *flast.Node, ancestry []*flast.Node) {
		for i := range l.subParsers {
			entry := &l.subParsers[i]
			if entry.sel.MatchesFunc(node, ancestry, typeOf) {
				l.enterSubTree(node, ancestry, typeOf, entry.desc)
			}
		}
	}
}

func (l *Linter) enterSubTree(host *flast.Node, ancestry []*flast.Node, hostTypeOf selector.TypeOf, desc ParserDescriptor) {
	run := l.run
	key := subTreeKey{host: host, grammar: desc.Grammar}

	root, parsed := run.subTrees[key]
	if !parsed {
		root = l.parseSubTree(host, desc)
		run.subTrees[key] = root
	}
	if root == nil {
		// Parse failed; the fatal problem was already recorded.
		return
	}

	// Sub-tree nodes resolve under the descriptor's key; ancestors beyond
	// the grammar boundary keep resolving under the host grammar's, so
	// selectors may span both.
	typeOf := func(n *flast.Node) string {
		if t := n.Type(desc.TypeKey); t != "" {
			return t
		}
		return hostTypeOf(n)
	}

	walker := l.subWalker(desc.Grammar)
	opts := WalkOptions{
		TypeKey:   desc.TypeKey,
		TypeOf:    typeOf,
		ChildKey:  desc.ChildKey,
		Transform: desc.Transform,
		Ancestry:  append([]*flast.Node{host}, ancestry...),
		EnterHook: l.enterHook(typeOf),
	}
	if err := walker.Walk(root, run.selectors, opts); err != nil {
		// The same selector map already compiled for the host walk, so
		// this cannot fail after that succeeded.
		panic(err)
	}
}

// parseSubTree resolves the embedded fragment's range, slices the source and
// invokes the descriptor's parser. A parse failure is reported as a fatal
// problem at the host node and nil is returned.
func (l *Linter) parseSubTree(host *flast.Node, desc ParserDescriptor) *flast.Node {
	run := l.run
	snap := run.snapshot

	start, end, ok := host.Span()
	if desc.StartOffset != nil {
		start, ok = desc.StartOffset(host)
	}
	if ok && desc.EndOffset != nil {
		end, ok = desc.EndOffset(host)
	}
	if !ok || start > end || end > len(snap.Content) {
		run.addFatal(snap.PositionOf(host),
			fmt.Sprintf("cannot resolve %s fragment range", desc.Grammar))
		return nil
	}

	line := snap.LineIndexAt(start)
	root, err := desc.Parse(snap.Slice(start, end), start, line, snap.LineStart(line))
	if err != nil {
		pos := snap.PositionOf(host)
		run.addFatal(pos, fmt.Sprintf("%s parse error: %v", desc.Grammar, err))
		return nil
	}
	return root
}

// subWalker returns the per-grammar walker, creating it on first use. Reuse
// keeps the compiled selector index shared across all host nodes of the
// grammar.
func (l *Linter) subWalker(grammar string) *Walker {
	w, ok := l.subWalkers[grammar]
	if !ok {
		w = &Walker{}
		l.subWalkers[grammar] = w
	}
	return w
}
