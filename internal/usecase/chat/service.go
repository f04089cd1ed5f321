package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pdfchat/internal/config"
	"pdfchat/internal/domain"
)

// Index answers a query given a textual prompt prefix.
type Index interface {
	Query(ctx context.Context, queryText, prompt string) (*domain.Response, error)
}

type HistoryFile interface {
	Load(path string) ([]domain.Message, error)
	Save(path string, msgs []domain.Message) error
}

type Service struct {
	store  domain.ConversationStore
	file   HistoryFile
	index  Index
	window int
}

func NewService(store domain.ConversationStore, file HistoryFile, index Index, cfg config.Config) *Service {
	return &Service{
		store:  store,
		file:   file,
		index:  index,
		window: cfg.HistoryWindow,
	}
}

// GenerateResponse asks the index about userInput with the recent history as
// prompt. History gains the user turn and the reply only when the query succeeds.
func (s *Service) GenerateResponse(ctx context.Context, userInput string) (domain.Message, error) {
	prompt := BuildPrompt(s.store.Recent(s.window), userInput)

	resp, err := s.index.Query(ctx, userInput, prompt)
	if err != nil {
		return domain.Message{}, fmt.Errorf("query index: %w", err)
	}

	reply := domain.Message{
		Role:    domain.RoleAssistant,
		Content: resp.Response,
	}
	s.store.Add(domain.Message{
		Role:    domain.RoleUser,
		Content: userInput,
	})
	s.store.Add(reply)

	return reply, nil
}

// LoadHistory replaces the history with the contents of path. A missing file
// leaves the history untouched; any other failure is returned.
func (s *Service) LoadHistory(path string) error {
	msgs, err := s.file.Load(path)
	if errors.Is(err, domain.ErrHistoryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	s.store.Replace(msgs)
	return nil
}

func (s *Service) SaveHistory(path string) error {
	return s.file.Save(path, s.store.All())
}

func (s *Service) History() []domain.Message {
	return s.store.All()
}

// BuildPrompt renders recent as "role: content" lines followed by a final
// "User: input" line.
func BuildPrompt(recent []domain.Message, userInput string) string {
	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n") + "\nUser: " + userInput
}
