// Package jsonfile persists chat history as a flat JSON array of {role, content} objects.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"pdfchat/internal/domain"
)

type record struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// Load reads the history saved at path. A missing file yields domain.ErrHistoryNotFound.
func (s *Store) Load(path string) ([]domain.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrHistoryNotFound
		}
		return nil, fmt.Errorf("read chat history: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode chat history %s: %w", path, err)
	}

	msgs := make([]domain.Message, 0, len(records))
	for _, r := range records {
		msgs = append(msgs, domain.Message{Role: r.Role, Content: r.Content})
	}
	return msgs, nil
}

// Save overwrites path with msgs. The write is not atomic.
func (s *Store) Save(path string, msgs []domain.Message) error {
	records := make([]record, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, record{Role: m.Role, Content: m.Content})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write chat history: %w", err)
	}
	return nil
}
