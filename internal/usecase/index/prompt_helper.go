package index

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrPromptTooLarge = errors.New("prompt leaves no room for context")

// Tokenizer converts text to the model's tokens and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// PromptHelper keeps prompts within the model's context window.
type PromptHelper struct {
	tokenizer       Tokenizer
	maxInputSize    int
	numOutput       int
	maxChunkOverlap int
}

func NewPromptHelper(tokenizer Tokenizer, maxInputSize, numOutput, maxChunkOverlap int) *PromptHelper {
	return &PromptHelper{
		tokenizer:       tokenizer,
		maxInputSize:    maxInputSize,
		numOutput:       numOutput,
		maxChunkOverlap: maxChunkOverlap,
	}
}

// ChunkSize is the number of tokens each of numChunks context chunks may use
// once template and the reserved output are accounted for.
func (h *PromptHelper) ChunkSize(template string, numChunks int) (int, error) {
	if numChunks < 1 {
		numChunks = 1
	}
	available := h.maxInputSize - h.numOutput - len(h.tokenizer.Encode(template))
	size := available / numChunks
	if size <= 0 {
		return 0, fmt.Errorf("%w: %d tokens available for %d chunks", ErrPromptTooLarge, available, numChunks)
	}
	return size, nil
}

// Truncate cuts every text so that all of them fit into template together.
func (h *PromptHelper) Truncate(template string, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	size, err := h.ChunkSize(template, len(texts))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = h.truncate(t, size)
	}
	return out, nil
}

// Splitter returns a splitter whose chunks fit into template on their own.
func (h *PromptHelper) Splitter(template string) (*Splitter, error) {
	size, err := h.ChunkSize(template, 1)
	if err != nil {
		return nil, err
	}
	return NewSplitter(h.tokenizer, size, h.maxChunkOverlap)
}

func (h *PromptHelper) truncate(text string, limit int) string {
	tokens := h.tokenizer.Encode(text)
	if len(tokens) <= limit {
		return text
	}
	return decodeValid(h.tokenizer, tokens[:limit])
}

// decodeValid drops the partial runes left where a cut falls inside a
// multi-byte character.
func decodeValid(t Tokenizer, tokens []int) string {
	s := t.Decode(tokens)
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
