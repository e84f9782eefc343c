package flast

import "sort"

// Position represents a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has positive values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsValid returns true if both ends of the range are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 &&
		sp.EndLine > 0 && sp.EndColumn > 0
}

// LineCount returns the number of lines in the snapshot.
func (s *Snapshot) LineCount() int {
	return len(s.Lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes. Returns (0, 0) if the offset is out of range.
func (s *Snapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(s.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(s.Content) {
		lastLine := s.Lines[len(s.Lines)-1]
		return len(s.Lines), offset - lastLine.StartOffset + 1
	}

	lineIdx := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(s.Lines) {
		lineIdx = len(s.Lines) - 1
	}

	info := s.Lines[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}
	return lineIdx + 1, offset - info.StartOffset + 1
}

// LineIndexAt returns the zero-based line number containing offset. Used by
// sub-parsers, which receive zero-based line context.
func (s *Snapshot) LineIndexAt(offset int) int {
	line, _ := s.LineAt(offset)
	if line == 0 {
		return 0
	}
	return line - 1
}

// LineStart returns the byte offset of the start of the zero-based line.
func (s *Snapshot) LineStart(zeroBasedLine int) int {
	if zeroBasedLine < 0 || zeroBasedLine >= len(s.Lines) {
		return 0
	}
	return s.Lines[zeroBasedLine].StartOffset
}

// OffsetOf converts 1-based line and column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (s *Snapshot) OffsetOf(line, col int) (int, bool) {
	if line < 1 || line > len(s.Lines) {
		return 0, false
	}
	info := s.Lines[line-1]
	if col < 1 {
		return 0, false
	}
	offset := info.StartOffset + col - 1
	if offset > info.EndOffset {
		return 0, false
	}
	return offset, true
}

// LineContent returns the text of a 1-based line, excluding the newline.
// Returns "" if the line number is out of range.
func (s *Snapshot) LineContent(line int) string {
	if line < 1 || line > len(s.Lines) {
		return ""
	}
	info := s.Lines[line-1]
	return s.Content[info.StartOffset:info.NewlineStart]
}

// Slice returns the source text for [start, end), or "" when the range does
// not fit the content.
func (s *Snapshot) Slice(start, end int) string {
	if start < 0 || end < start || end > len(s.Content) {
		return ""
	}
	return s.Content[start:end]
}

// PositionOf converts a node's byte range to a line/column range.
// Returns an invalid SourcePosition when the node carries no range.
func (s *Snapshot) PositionOf(n *Node) SourcePosition {
	start, end, ok := n.Span()
	if !ok {
		return SourcePosition{}
	}
	startLine, startCol := s.LineAt(start)
	endLine, endCol := s.LineAt(end)
	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// TextOf returns the source text covered by a node, or "" when the node
// carries no range.
func (s *Snapshot) TextOf(n *Node) string {
	start, end, ok := n.Span()
	if !ok {
		return ""
	}
	return s.Slice(start, end)
}
