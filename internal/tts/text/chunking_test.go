// Package text_test tests the normalization and chunking used for synthesis.
package text_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/book-expert/blog-video-service/internal/tts/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	got := chunker.Normalize("hello\n\nworld\t  again")
	assert.Equal(t, "hello world again", got)
}

func TestNormalizeRewritesPunctuation(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	got := chunker.Normalize("first—second…")
	assert.Equal(t, "first, second...", got)
}

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	chunks := chunker.Split("hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitEmptyTextIsNil(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	assert.Nil(t, chunker.Split("   \n\t "))
}

func TestSplitRespectsRuneBound(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	input := strings.Repeat("some words in a sentence. ", 40)

	chunks := chunker.Split(input)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), text.MaxChunkRunes)
	}
}

func TestSplitPreservesEveryWordInOrder(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	input := strings.Repeat("alpha beta gamma delta epsilon. ", 20)

	chunks := chunker.Split(input)
	joined := strings.Join(chunks, " ")

	assert.Equal(t, chunker.Normalize(input), joined)
}

func TestSplitOversizedWordIsHardCut(t *testing.T) {
	t.Parallel()

	chunker := text.NewChunker()

	input := strings.Repeat("x", 250)

	chunks := chunker.Split(input)
	require.Len(t, chunks, 3)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), text.MaxChunkRunes)
	}
}
