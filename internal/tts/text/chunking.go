// Package text provides text normalization and chunking for speech synthesis.
//
// The synthesis endpoint accepts a bounded amount of text per request, so post
// content is normalized once and then split into chunks that each fit under
// that bound while breaking on sentence or word boundaries.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxChunkRunes is the largest chunk the synthesis endpoint accepts.
const MaxChunkRunes = 100

// Regex patterns for normalization.
const (
	whitespaceRegexPattern = `\s+`
)

// Characters rewritten before chunking.
const (
	emDash       = "—"
	enDash       = "–"
	ellipsisChar = "…"
)

// Chunker normalizes post text and splits it into synthesizer-sized pieces.
type Chunker struct {
	whitespacePattern *regexp.Regexp
	maxRunes          int
}

// NewChunker creates a chunker with compiled patterns and the default chunk bound.
func NewChunker() *Chunker {
	return &Chunker{
		whitespacePattern: regexp.MustCompile(whitespaceRegexPattern),
		maxRunes:          MaxChunkRunes,
	}
}

// Normalize collapses whitespace and rewrites typographic punctuation that the
// synthesis endpoint mispronounces.
func (c *Chunker) Normalize(input string) string {
	replacer := strings.NewReplacer(
		emDash, ", ",
		enDash, ", ",
		ellipsisChar, "...",
		"\r\n", " ",
		"\n", " ",
		"\t", " ",
	)

	normalized := replacer.Replace(input)
	normalized = c.whitespacePattern.ReplaceAllString(normalized, " ")

	return strings.TrimSpace(normalized)
}

// Split normalizes the input and cuts it into chunks of at most MaxChunkRunes
// runes. Cuts prefer sentence boundaries, then word boundaries; a single word
// longer than the bound is cut mid-word as a last resort. The concatenation of
// all chunks preserves every word of the input in order.
func (c *Chunker) Split(input string) []string {
	normalized := c.Normalize(input)
	if normalized == "" {
		return nil
	}

	var chunks []string

	remaining := normalized
	for utf8.RuneCountInString(remaining) > c.maxRunes {
		cut := c.findCut(remaining)
		chunk := strings.TrimSpace(remaining[:cut])

		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		remaining = strings.TrimSpace(remaining[cut:])
	}

	if remaining != "" {
		chunks = append(chunks, remaining)
	}

	return chunks
}

// findCut returns a byte offset at or below the rune bound to cut at.
func (c *Chunker) findCut(input string) int {
	limit := byteOffsetForRunes(input, c.maxRunes)

	window := input[:limit]

	// Prefer ending a sentence inside the window.
	for _, mark := range []string{". ", "! ", "? ", "; "} {
		idx := strings.LastIndex(window, mark)
		if idx > 0 {
			return idx + len(mark)
		}
	}

	// Fall back to the last word boundary.
	idx := strings.LastIndex(window, " ")
	if idx > 0 {
		return idx + 1
	}

	// A single oversized word: hard cut at the rune bound.
	return limit
}

// byteOffsetForRunes converts a rune count into a byte offset into input.
func byteOffsetForRunes(input string, runes int) int {
	count := 0

	for idx := range input {
		if count == runes {
			return idx
		}

		count++
	}

	return len(input)
}
