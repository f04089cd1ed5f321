// Package tokenizer counts and cuts text in the same tokens the OpenAI models use.
package tokenizer

import (
	"fmt"
	"log"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const fallbackEncoding = "cl100k_base"

// allSpecial lets text that happens to contain special token markers, such as
// "<|endoftext|>", be encoded instead of rejected.
var allSpecial = []string{"all"}

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New returns the encoding used by model, or cl100k_base when the model is
// not known to tiktoken.
func New(model string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Printf("no tokenizer for model %q, using %s", model, fallbackEncoding)
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("load %s encoding: %w", fallbackEncoding, err)
		}
	}
	return &Tokenizer{enc: enc}, nil
}

func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, allSpecial, nil)
}

func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
