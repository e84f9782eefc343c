package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/fllint/pkg/selector"
)

// handler is one selector-to-visitor binding with its dispatch metadata.
type handler struct {
	sel     *selector.Selector
	visitor Visitor
	exit    bool

	// ordinal preserves registration order across buckets so a node's
	// handlers always fire in a stable order.
	ordinal int
}

// visitorIndex buckets handlers by the candidate node types their selectors
// can match, so the walker consults only the handlers that could possibly
// fire at a node instead of testing every selector everywhere.
type visitorIndex struct {
	byType    map[string][]*handler
	universal []*handler
}

// buildIndex compiles a selector map into an index. Selector keys are
// processed in sorted order so ordinals, and therefore dispatch order across
// different selectors, are deterministic; visitors under one key keep their
// registration order.
func buildIndex(selectors map[string][]Visitor) (*visitorIndex, error) {
	keys := make([]string, 0, len(selectors))
	for k := range selectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	idx := &visitorIndex{byType: make(map[string][]*handler)}
	ordinal := 0

	for _, key := range keys {
		raw, exit := strings.CutSuffix(key, ExitSuffix)
		sel, err := selector.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid selector %q: %w", key, err)
		}

		for _, v := range selectors[key] {
			h := &handler{sel: sel, visitor: v, exit: exit, ordinal: ordinal}
			ordinal++

			candidates := sel.Candidates()
			if candidates == nil {
				idx.universal = append(idx.universal, h)
				continue
			}
			for _, t := range candidates {
				idx.byType[t] = append(idx.byType[t], h)
			}
		}
	}

	return idx, nil
}

// handlersFor merges the type bucket and the universal bucket for a node
// type, ordered by ordinal. Both buckets are already ordinal-sorted, so this
// is a two-way merge.
func (idx *visitorIndex) handlersFor(nodeType string) []*handler {
	typed := idx.byType[nodeType]
	if len(typed) == 0 {
		return idx.universal
	}
	if len(idx.universal) == 0 {
		return typed
	}

	merged := make([]*handler, 0, len(typed)+len(idx.universal))
	i, j := 0, 0
	for i < len(typed) && j < len(idx.universal) {
		if typed[i].ordinal < idx.universal[j].ordinal {
			merged = append(merged, typed[i])
			i++
		} else {
			merged = append(merged, idx.universal[j])
			j++
		}
	}
	merged = append(merged, typed[i:]...)
	merged = append(merged, idx.universal[j:]...)
	return merged
}

// fingerprint canonically identifies a selector map's shape: its sorted keys
// plus the visitor count under each. The walker reuses its index as long as
// the fingerprint is unchanged.
func fingerprint(selectors map[string][]Visitor) string {
	keys := make([]string, 0, len(selectors))
	for k := range selectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s\x00%d\x00", k, len(selectors[k]))
	}
	return b.String()
}
