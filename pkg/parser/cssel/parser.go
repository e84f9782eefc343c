// Package cssel parses the CSS selector lists embedded in cosmetic filter
// rules. It is a sub-grammar parser: the lint engine hands it a slice of the
// main source plus absolute position context, and walks the resulting
// sub-tree with the caller's original selectors.
//
// The sub-tree deliberately uses its own attribute keys (TypeKey, ChildKey)
// rather than the primary grammar's.
package cssel

import (
	"fmt"
	"strings"

	"github.com/yaklabco/fllint/pkg/flast"
)

// Attribute keys used by nodes of this grammar.
const (
	TypeKey  = "kind"
	ChildKey = "selectors"
)

// Node kinds produced by this parser.
const (
	KindSelectorList      = "SelectorList"
	KindSelector          = "Selector"
	KindTypeSelector      = "TypeSelector"
	KindClassSelector     = "ClassSelector"
	KindIDSelector        = "IdSelector"
	KindAttributeSelector = "AttributeSelector"
	KindPseudoSelector    = "PseudoSelector"
)

// Parse parses a CSS selector list. source is the slice of the main text to
// parse, absOffset its absolute byte offset, line the zero-based line number
// at that offset and lineStart the absolute offset of that line's start.
// All node offsets in the returned tree are absolute.
func Parse(source string, absOffset, line, lineStart int) (*flast.Node, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("empty selector list at line %d", line+1)
	}

	root := flast.New(map[string]any{
		TypeKey:        KindSelectorList,
		flast.StartKey: absOffset,
		flast.EndKey:   absOffset + len(source),
		"line":         line,
		"lineStart":    lineStart,
	})

	pieces, err := splitSelectors(source)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}

	for _, piece := range pieces {
		text := strings.TrimSpace(piece.text)
		if text == "" {
			return nil, fmt.Errorf("empty selector in list at line %d", line+1)
		}
		localStart := piece.offset + strings.Index(piece.text, text)

		sel := flast.New(map[string]any{
			TypeKey:        KindSelector,
			flast.StartKey: absOffset + localStart,
			flast.EndKey:   absOffset + localStart + len(text),
			"value":        text,
		})
		sel.Set("elements", parseElements(text, absOffset+localStart))
		root.AppendChild(ChildKey, sel)
	}

	return root, nil
}

type piece struct {
	text   string
	offset int
}

// splitSelectors splits on top-level commas, honoring quotes, brackets and
// parentheses. Unbalanced nesting is a parse error.
func splitSelectors(source string) ([]piece, error) {
	var pieces []piece
	depth := 0
	start := 0
	var quote byte

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at offset %d", c, i)
			}
		case c == ',' && depth == 0:
			pieces = append(pieces, piece{text: source[start:i], offset: start})
			start = i + 1
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated string")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}

	pieces = append(pieces, piece{text: source[start:], offset: start})
	return pieces, nil
}

// parseElements scans a single selector into element nodes. base is the
// absolute offset of the selector's first byte. The scan is tolerant:
// combinators and unrecognized bytes are skipped.
func parseElements(text string, base int) []*flast.Node {
	var elements []*flast.Node

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '.':
			end := identEnd(text, i+1)
			elements = append(elements, element(KindClassSelector, text[i:end], base+i, base+end))
			i = end
		case c == '#':
			end := identEnd(text, i+1)
			elements = append(elements, element(KindIDSelector, text[i:end], base+i, base+end))
			i = end
		case c == ':':
			start := i
			for i < len(text) && text[i] == ':' {
				i++
			}
			end := identEnd(text, i)
			end = skipBalanced(text, end, '(', ')')
			elements = append(elements, element(KindPseudoSelector, text[start:end], base+start, base+end))
			i = end
		case c == '[':
			end := skipBalanced(text, i, '[', ']')
			elements = append(elements, element(KindAttributeSelector, text[i:end], base+i, base+end))
			i = end
		case isIdentByte(c) || c == '*':
			end := i + 1
			if c != '*' {
				end = identEnd(text, i)
			}
			elements = append(elements, element(KindTypeSelector, text[i:end], base+i, base+end))
			i = end
		default:
			i++
		}
	}

	return elements
}

func element(kind, value string, start, end int) *flast.Node {
	return flast.New(map[string]any{
		TypeKey:        kind,
		flast.StartKey: start,
		flast.EndKey:   end,
		"value":        value,
	})
}

func identEnd(text string, from int) int {
	i := from
	for i < len(text) && isIdentByte(text[i]) {
		i++
	}
	return i
}

// skipBalanced advances past a balanced open/close pair starting at or after
// from. If no opener is present at from, from is returned unchanged.
func skipBalanced(text string, from int, open, closing byte) int {
	if from >= len(text) || text[from] != open {
		return from
	}
	depth := 0
	for i := from; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}
