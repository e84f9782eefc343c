// Package adblock parses adblock filter-list text into the generic fllint
// AST. The parser is line-oriented and lenient: unrecognizable lines become
// network rules rather than parse failures, matching how adblockers treat
// them.
package adblock

import (
	"context"
	"strings"

	"github.com/yaklabco/fllint/pkg/flast"
)

// Node types produced by this parser.
const (
	TypeFilterList   = "FilterList"
	TypeEmptyLine    = "EmptyLine"
	TypeCommentRule  = "CommentRule"
	TypePreProcessor = "PreProcessorDirective"
	TypeNetworkRule  = "NetworkRule"
	TypeCosmeticRule = "CosmeticRule"
	TypeModifier     = "Modifier"
	TypeDomain       = "Domain"
)

// Cosmetic rule separators, longest first so matching is unambiguous.
var cosmeticSeparators = []string{"#@?#", "#@$#", "#@%#", "#?#", "#$#", "#%#", "#@#", "##"}

// Parser parses filter-list content into a Snapshot.
type Parser struct{}

// New creates a filter-list parser.
func New() *Parser {
	return &Parser{}
}

// Parse builds the snapshot and primary AST for the given content.
// The context is accepted for interface symmetry; parsing is synchronous
// and never fails at the list level.
func (p *Parser) Parse(_ context.Context, path, content string) (*flast.Snapshot, error) {
	snap := flast.NewSnapshot(path, content)

	root := flast.NewTyped(flast.DefaultTypeKey, TypeFilterList, 0, len(content))
	for i := range snap.Lines {
		info := snap.Lines[i]
		raw := content[info.StartOffset:info.NewlineStart]
		root.AppendChild(flast.DefaultChildKey, parseLine(raw, info.StartOffset))
	}

	snap.Root = root
	return snap, nil
}

// parseLine classifies and parses a single line. lineStart is the absolute
// offset of the line's first byte.
func parseLine(raw string, lineStart int) *flast.Node {
	trimmed := strings.TrimSpace(raw)
	indent := strings.Index(raw, trimmed)
	if trimmed == "" {
		indent = 0
	}
	start := lineStart + indent
	end := start + len(trimmed)

	switch {
	case trimmed == "":
		return flast.NewTyped(flast.DefaultTypeKey, TypeEmptyLine, lineStart, lineStart+len(raw))

	case strings.HasPrefix(trimmed, "!#"):
		return parsePreProcessor(trimmed, start, end)

	case strings.HasPrefix(trimmed, "!"):
		return parseComment(trimmed, "!", start, end)

	case trimmed == "#" || strings.HasPrefix(trimmed, "# "):
		// Hosts-file style comment.
		return parseComment(trimmed, "#", start, end)
	}

	if sepIdx, sep := findCosmeticSeparator(trimmed); sepIdx >= 0 {
		return parseCosmetic(trimmed, sepIdx, sep, start, end)
	}
	return parseNetwork(trimmed, start, end)
}

func parseComment(trimmed, marker string, start, end int) *flast.Node {
	n := flast.NewTyped(flast.DefaultTypeKey, TypeCommentRule, start, end)
	n.Set("marker", marker)
	n.Set("text", strings.TrimSpace(trimmed[len(marker):]))
	return n
}

func parsePreProcessor(trimmed string, start, end int) *flast.Node {
	body := trimmed[len("!#"):]
	name := body
	value := ""
	if idx := strings.IndexAny(body, " \t("); idx >= 0 {
		name = body[:idx]
		value = strings.TrimSpace(body[idx:])
	}

	n := flast.NewTyped(flast.DefaultTypeKey, TypePreProcessor, start, end)
	n.Set("name", name)
	n.Set("value", value)
	return n
}

// findCosmeticSeparator locates the first cosmetic separator in the line.
// Returns (-1, "") for network rules.
func findCosmeticSeparator(trimmed string) (int, string) {
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '#' {
			continue
		}
		for _, sep := range cosmeticSeparators {
			if strings.HasPrefix(trimmed[i:], sep) {
				return i, sep
			}
		}
	}
	return -1, ""
}

func parseCosmetic(trimmed string, sepIdx int, sep string, start, end int) *flast.Node {
	n := flast.NewTyped(flast.DefaultTypeKey, TypeCosmeticRule, start, end)
	n.Set("separator", sep)
	n.Set("exception", strings.Contains(sep, "@"))

	if domainPart := trimmed[:sepIdx]; domainPart != "" {
		n.Set("domains", parseDomains(domainPart, start))
	}

	bodyStart := start + sepIdx + len(sep)
	n.Set("body", trimmed[sepIdx+len(sep):])
	n.Set("bodyStart", bodyStart)
	n.Set("bodyEnd", end)
	return n
}

// parseDomains splits a comma-separated domain list. A "~" prefix marks an
// exception domain. base is the absolute offset of the list's first byte.
func parseDomains(domainPart string, base int) []*flast.Node {
	var domains []*flast.Node
	offset := 0
	for _, piece := range strings.Split(domainPart, ",") {
		pieceStart := offset
		offset += len(piece) + 1

		name := strings.TrimSpace(piece)
		if name == "" {
			continue
		}
		nameStart := pieceStart + strings.Index(piece, name)

		exception := false
		if strings.HasPrefix(name, "~") {
			exception = true
			name = name[1:]
		}

		d := flast.NewTyped(flast.DefaultTypeKey, TypeDomain, base+nameStart, base+pieceStart+len(piece))
		d.Set("value", name)
		d.Set("exception", exception)
		domains = append(domains, d)
	}
	return domains
}

func parseNetwork(trimmed string, start, end int) *flast.Node {
	n := flast.NewTyped(flast.DefaultTypeKey, TypeNetworkRule, start, end)

	pattern := trimmed
	patternStart := start
	if strings.HasPrefix(pattern, "@@") {
		n.Set("exception", true)
		pattern = pattern[2:]
		patternStart += 2
	} else {
		n.Set("exception", false)
	}

	// Regex rules may contain "$" in the pattern; skip modifier parsing for
	// them.
	if !isRegexPattern(pattern) {
		if dollar := strings.LastIndexByte(pattern, '$'); dollar >= 0 {
			n.Set("modifiers", parseModifiers(pattern[dollar+1:], patternStart+dollar+1))
			pattern = pattern[:dollar]
		}
	}

	n.Set("pattern", pattern)
	n.Set("patternStart", patternStart)
	return n
}

func isRegexPattern(pattern string) bool {
	return len(pattern) > 1 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/")
}

// parseModifiers splits the "$"-suffixed modifier list. base is the absolute
// offset of the first modifier byte.
func parseModifiers(list string, base int) []*flast.Node {
	var modifiers []*flast.Node
	offset := 0
	for _, piece := range splitModifiers(list) {
		pieceStart := offset
		offset += len(piece) + 1

		text := strings.TrimSpace(piece)
		if text == "" {
			continue
		}
		textStart := pieceStart + strings.Index(piece, text)

		m := flast.NewTyped(flast.DefaultTypeKey, TypeModifier, base+textStart, base+textStart+len(text))

		if strings.HasPrefix(text, "~") {
			m.Set("exception", true)
			text = text[1:]
		} else {
			m.Set("exception", false)
		}

		name, value := text, ""
		if eq := strings.IndexByte(text, '='); eq >= 0 {
			name = text[:eq]
			value = text[eq+1:]
		}
		m.Set("name", name)
		m.Set("value", value)
		modifiers = append(modifiers, m)
	}
	return modifiers
}

// splitModifiers splits on commas, honoring backslash escapes used by
// modifiers carrying regex values (e.g. replace=).
func splitModifiers(list string) []string {
	var pieces []string
	var current strings.Builder
	escaped := false
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case escaped:
			current.WriteByte(c)
			escaped = false
		case c == '\\':
			current.WriteByte(c)
			escaped = true
		case c == ',':
			pieces = append(pieces, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	pieces = append(pieces, current.String())
	return pieces
}
