// Package flast provides the generic AST representation for fllint.
// Trees may come from different grammars (the primary adblock grammar or an
// embedded sub-grammar), so nodes carry their attributes in a schemaless map
// and the grammar supplies the keys used for the type tag and child list.
package flast

import "slices"

// Conventional attribute keys shared by the bundled parsers. Sub-grammars
// may use different keys; the walker is told which ones to use.
const (
	DefaultTypeKey  = "type"
	DefaultChildKey = "children"
	StartKey        = "start"
	EndKey          = "end"
)

// Node is a single AST node: a tagged, heterogeneous record. A node's type
// tag lives under a grammar-specific key, its byte range under "start"/"end",
// and children either as an ordered list under the grammar's child key or as
// ad-hoc attributes holding nested nodes.
//
// Nodes are always handled by pointer; pointer identity is what the engine's
// per-node caches key on.
type Node struct {
	attrs map[string]any
}

// New creates a node with the given attributes. The map is retained, not
// copied.
func New(attrs map[string]any) *Node {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &Node{attrs: attrs}
}

// NewTyped creates a node with a type tag under typeKey and a byte range.
func NewTyped(typeKey, nodeType string, start, end int) *Node {
	return New(map[string]any{
		typeKey:  nodeType,
		StartKey: start,
		EndKey:   end,
	})
}

// Get returns the attribute stored under key.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Set stores an attribute under key.
func (n *Node) Set(key string, value any) {
	n.attrs[key] = value
}

// Keys returns the attribute keys of this node, in map order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	return keys
}

// Type returns the node's type tag under typeKey, or "" if absent.
func (n *Node) Type(typeKey string) string {
	if n == nil {
		return ""
	}
	if s, ok := n.attrs[typeKey].(string); ok {
		return s
	}
	return ""
}

// Span returns the node's byte range [start, end). ok is false when either
// bound is missing or not an int.
func (n *Node) Span() (start, end int, ok bool) {
	if n == nil {
		return 0, 0, false
	}
	s, sok := n.attrs[StartKey].(int)
	e, eok := n.attrs[EndKey].(int)
	if !sok || !eok {
		return 0, 0, false
	}
	return s, e, true
}

// SetSpan stores the node's byte range.
func (n *Node) SetSpan(start, end int) {
	n.attrs[StartKey] = start
	n.attrs[EndKey] = end
}

// ChildList returns the ordered child list stored under childKey, or nil if
// the node has no explicit child list.
func (n *Node) ChildList(childKey string) []*Node {
	if n == nil {
		return nil
	}
	if kids, ok := n.attrs[childKey].([]*Node); ok {
		return kids
	}
	return nil
}

// AppendChild appends a node to the ordered child list under childKey.
func (n *Node) AppendChild(childKey string, child *Node) {
	kids, _ := n.attrs[childKey].([]*Node)
	n.attrs[childKey] = append(kids, child)
}

// String returns a node attribute as a string, or "" if absent or not a
// string.
func (n *Node) String(key string) string {
	if n == nil {
		return ""
	}
	s, _ := n.attrs[key].(string)
	return s
}

// Bool returns a node attribute as a bool, or false if absent.
func (n *Node) Bool(key string) bool {
	if n == nil {
		return false
	}
	b, _ := n.attrs[key].(bool)
	return b
}

// Int returns a node attribute as an int, or def if absent.
func (n *Node) Int(key string, def int) int {
	if n == nil {
		return def
	}
	if v, ok := n.attrs[key].(int); ok {
		return v
	}
	return def
}

// NestedNodes returns, for every attribute except skipKey, any nested node or
// array of nodes that carries a type tag under typeKey. Attributes are
// scanned in sorted key order so traversal stays deterministic.
func (n *Node) NestedNodes(typeKey, skipKey string) []*Node {
	var nested []*Node
	keys := n.Keys()
	slices.Sort(keys)
	for _, key := range keys {
		if key == skipKey {
			continue
		}
		v := n.attrs[key]
		switch val := v.(type) {
		case *Node:
			if val.Type(typeKey) != "" {
				nested = append(nested, val)
			}
		case []*Node:
			for _, item := range val {
				if item.Type(typeKey) != "" {
					nested = append(nested, item)
				}
			}
		}
	}
	return nested
}
