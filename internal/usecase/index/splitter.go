package index

import (
	"fmt"
	"strings"
)

// Splitter cuts text into windows of chunkSize tokens; consecutive windows
// share overlap tokens.
type Splitter struct {
	tokenizer Tokenizer
	chunkSize int
	overlap   int
}

func NewSplitter(tokenizer Tokenizer, chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, chunkSize)
	}
	return &Splitter{tokenizer: tokenizer, chunkSize: chunkSize, overlap: overlap}, nil
}

func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := s.tokenizer.Encode(text)

	var chunks []string
	for start := 0; ; {
		end := start + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		if chunk := strings.TrimSpace(decodeValid(s.tokenizer, tokens[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(tokens) {
			break
		}
		start = end - s.overlap
	}
	return chunks
}
