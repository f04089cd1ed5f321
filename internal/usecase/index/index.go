// Package index builds a queryable vector index over documents and answers
// questions with a language model, using the best matching chunks as context.
package index

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pdfchat/internal/config"
	"pdfchat/internal/domain"
)

// Retriever stores chunks and finds the ones most similar to a text.
type Retriever interface {
	Add(ctx context.Context, chunks []domain.Chunk) error
	Search(ctx context.Context, text string, k int) ([]domain.SourceNode, error)
}

type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Settings describes the language model and the token budgets it works under.
type Settings struct {
	Model           string
	Temperature     float32
	MaxInputSize    int
	NumOutput       int
	MaxChunkOverlap int
	TopK            int
}

func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxInputSize:    cfg.MaxInputSize,
		NumOutput:       cfg.NumOutput,
		MaxChunkOverlap: cfg.MaxChunkOverlap,
		TopK:            cfg.SimilarityTopK,
	}
}

type VectorIndex struct {
	store    Retriever
	client   Client
	settings Settings
	helper   *PromptHelper
}

// FromDocuments splits docs into chunks sized for the question prompt, as
// counted by tokenizer, and adds them to store. The returned index never
// writes to store again.
func FromDocuments(ctx context.Context, docs []domain.Document, store Retriever, client Client, tokenizer Tokenizer, settings Settings) (*VectorIndex, error) {
	if settings.TopK <= 0 {
		settings.TopK = 1
	}
	helper := NewPromptHelper(tokenizer, settings.MaxInputSize, settings.NumOutput, settings.MaxChunkOverlap)

	splitter, err := helper.Splitter(questionPrompt("", ""))
	if err != nil {
		return nil, err
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		for i, text := range splitter.Split(doc.Text) {
			chunks = append(chunks, domain.Chunk{
				DocumentID: doc.ID,
				Index:      i,
				Text:       text,
				Metadata: map[string]string{
					"file_name": doc.Name,
					"file_path": doc.Path,
				},
			})
		}
	}

	if len(chunks) > 0 {
		if err := store.Add(ctx, chunks); err != nil {
			return nil, fmt.Errorf("add chunks: %w", err)
		}
	}
	log.Printf("indexed %d chunks from %d documents", len(chunks), len(docs))

	return &VectorIndex{
		store:    store,
		client:   client,
		settings: settings,
		helper:   helper,
	}, nil
}

// Query answers text using the most similar chunks as context.
func (ix *VectorIndex) Query(ctx context.Context, text string) (*domain.Response, error) {
	nodes, err := ix.store.Search(ctx, text, ix.settings.TopK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.Chunk.Text
	}
	fitted, err := ix.helper.Truncate(questionPrompt("", text), texts)
	if err != nil {
		return nil, err
	}

	answer, err := ix.client.Complete(ctx, CompletionRequest{
		Model:       ix.settings.Model,
		Prompt:      questionPrompt(strings.Join(fitted, "\n\n"), text),
		MaxTokens:   ix.settings.NumOutput,
		Temperature: ix.settings.Temperature,
	})
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		Response:    strings.TrimSpace(answer),
		SourceNodes: nodes,
	}, nil
}

func questionPrompt(contextText, query string) string {
	var sb strings.Builder
	sb.WriteString("Context information is below.\n")
	sb.WriteString("---------------------\n")
	sb.WriteString(contextText)
	sb.WriteString("\n---------------------\n")
	sb.WriteString("Given the context information and not prior knowledge, answer the question: ")
	sb.WriteString(query)
	sb.WriteString("\n")
	return sb.String()
}
