// Package normalize canonicalizes question text for matching. The normalized
// form is never displayed; it exists so that visually equivalent inputs
// (upper/lower case, full-width/half-width variants, ragged whitespace)
// compare equal as substrings.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// String returns the canonical matching form of s: full-width characters
// folded to their half-width equivalents, letters lower-cased, whitespace
// runs collapsed to a single space, and the result trimmed.
//
// String is pure and idempotent: String(String(s)) == String(s).
func String(s string) string {
	return NewMapped(s).Normalized
}

// Mapped is the normalized form of a string together with a byte-offset
// mapping back into the original. It supports translating a match found in
// the normalized text into a highlight span over the original text.
type Mapped struct {
	Normalized string

	// starts[i] is the byte offset in the original string of the character
	// that produced normalized byte i. ends[i] is the offset just past it.
	// A collapsed whitespace run maps every byte of the run.
	starts []int
	ends   []int
}

// NewMapped normalizes s as [String] does while recording the origin of
// every normalized byte.
func NewMapped(s string) *Mapped {
	var (
		out          strings.Builder
		starts, ends []int
		pendingSpace bool
		runStart     int
		runEnd       int
	)

	for i, r := range s {
		size := utf8.RuneLen(r)
		folded := width.Fold.String(string(r))

		// Whitespace is detected on the folded form so that ideographic
		// spaces (U+3000) collapse together with ASCII whitespace.
		if isSpace(folded) {
			if !pendingSpace {
				runStart = i
			}
			runEnd = i + size
			pendingSpace = true
			continue
		}

		// Leading whitespace is trimmed, inner runs collapse to one space
		// covering the whole run.
		if pendingSpace && out.Len() > 0 {
			out.WriteByte(' ')
			starts = append(starts, runStart)
			ends = append(ends, runEnd)
		}
		pendingSpace = false

		for _, fr := range folded {
			from := out.Len()
			out.WriteRune(unicode.ToLower(fr))
			for j := from; j < out.Len(); j++ {
				starts = append(starts, i)
				ends = append(ends, i+size)
			}
		}
	}

	return &Mapped{
		Normalized: out.String(),
		starts:     starts,
		ends:       ends,
	}
}

// Index returns the byte offset of the first occurrence of substr in the
// normalized text, or -1 if absent. substr must already be normalized.
func (m *Mapped) Index(substr string) int {
	return strings.Index(m.Normalized, substr)
}

// Span translates a byte range of the normalized text into the covering byte
// range of the original text. The second return is false for an empty or
// out-of-bounds range.
func (m *Mapped) Span(normStart, normEnd int) (start, end int, ok bool) {
	if normStart < 0 || normEnd <= normStart || normEnd > len(m.starts) {
		return 0, 0, false
	}
	return m.starts[normStart], m.ends[normEnd-1], true
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return s != ""
}
