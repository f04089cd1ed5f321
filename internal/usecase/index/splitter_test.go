package index

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_Split(t *testing.T) {
	s, err := NewSplitter(newWordTokenizer(), 4, 1)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "  \n ", nil},
		{"fits", "a b c", []string{"a b c"}},
		{"exact", "a b c d", []string{"a b c d"}},
		{"overlap", "a b c d e f g", []string{"a b c d", "d e f g"}},
		{"tail", "a\nb c d e", []string{"a b c d", "d e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Split(tt.text))
		})
	}
}

func TestNewSplitter_RejectsBadSizes(t *testing.T) {
	_, err := NewSplitter(runeTokenizer{}, 0, 0)
	assert.Error(t, err)

	_, err = NewSplitter(runeTokenizer{}, 4, 4)
	assert.Error(t, err)

	_, err = NewSplitter(runeTokenizer{}, 4, -1)
	assert.Error(t, err)
}

func TestPromptHelper_ChunkSize(t *testing.T) {
	h := NewPromptHelper(newWordTokenizer(), 100, 20, 5)

	size, err := h.ChunkSize("one two three", 1)
	require.NoError(t, err)
	assert.Equal(t, 77, size)

	size, err = h.ChunkSize("one two three", 2)
	require.NoError(t, err)
	assert.Equal(t, 38, size)

	_, err = NewPromptHelper(newWordTokenizer(), 10, 5, 0).ChunkSize("a b c d e f", 1)
	assert.ErrorIs(t, err, ErrPromptTooLarge)
}

func TestPromptHelper_Truncate(t *testing.T) {
	h := NewPromptHelper(newWordTokenizer(), 10, 2, 0)

	out, err := h.Truncate("", []string{"a b c d e f", "x y"})

	require.NoError(t, err)
	assert.Equal(t, []string{"a b c d", "x y"}, out)

	out, err = h.Truncate("", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSplitter_SplitsTextWithoutSpaces(t *testing.T) {
	s, err := NewSplitter(runeTokenizer{}, 3820, 20)
	require.NoError(t, err)

	chunks := s.Split(strings.Repeat("文档内容", 20000))

	require.Len(t, chunks, 22)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 3820)
	}
	assert.Equal(t, chunks[0][len(chunks[0])-len("文档内容"):], chunks[1][:len("文档内容")])
}

func TestPromptHelper_TruncatesTextWithoutSpaces(t *testing.T) {
	h := NewPromptHelper(runeTokenizer{}, 4096, 256, 20)

	out, err := h.Truncate("", []string{strings.Repeat("文档内容", 20000)})

	require.NoError(t, err)
	assert.Equal(t, 3840, utf8.RuneCountInString(out[0]))
}
