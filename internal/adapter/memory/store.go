package memory

import (
	"sync"

	"pdfchat/internal/domain"
)

type Store struct {
	mu       sync.Mutex
	messages []domain.Message
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Recent returns up to limit of the newest messages, oldest first.
func (s *Store) Recent(limit int) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || len(s.messages) == 0 {
		return nil
	}

	recent := s.messages
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	return append([]domain.Message(nil), recent...)
}

func (s *Store) All() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

func (s *Store) Replace(msgs []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]domain.Message(nil), msgs...)
}
