// Package fix provides the primitive edit commands rules emit and the
// applier that reconciles a batch of them into one edited text.
package fix

// Command represents a single text edit: replace bytes [Start, End) with
// Text. Removal is a replacement with empty text; insertion is a zero-width
// range.
type Command struct {
	// Start is the byte index where the edit begins (inclusive).
	Start int

	// End is the byte index where the edit ends (exclusive).
	End int

	// Text is the replacement text.
	Text string
}

// IsInsert returns true for zero-width commands.
func (c Command) IsInsert() bool {
	return c.Start == c.End
}

// Builder constructs validated fix commands against a source of a known
// length. Every builder method returns nil instead of an error when the
// requested range is invalid; the reporter simply drops nil fixes.
type Builder struct {
	sourceLen int
}

// NewBuilder creates a Builder for a source of the given length.
func NewBuilder(sourceLen int) *Builder {
	return &Builder{sourceLen: sourceLen}
}

func (b *Builder) validRange(start, end int) bool {
	return start >= 0 && end >= start && end <= b.sourceLen
}

// InsertBefore inserts text at the start of the range.
func (b *Builder) InsertBefore(start, end int, text string) *Command {
	if !b.validRange(start, end) {
		return nil
	}
	return &Command{Start: start, End: start, Text: text}
}

// InsertAfter inserts text just past the end of the range.
func (b *Builder) InsertAfter(start, end int, text string) *Command {
	if !b.validRange(start, end) {
		return nil
	}
	return &Command{Start: end, End: end, Text: text}
}

// Replace replaces the range with text.
func (b *Builder) Replace(start, end int, text string) *Command {
	if !b.validRange(start, end) {
		return nil
	}
	return &Command{Start: start, End: end, Text: text}
}

// Remove deletes the range.
func (b *Builder) Remove(start, end int) *Command {
	return b.Replace(start, end, "")
}
