package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"pdfchat/internal/domain"
)

// Store keeps document chunks in one in-memory chromem collection.
type Store struct {
	collection *chromem.Collection
}

func NewStore(name string, embed chromem.EmbeddingFunc) (*Store, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &Store{collection: collection}, nil
}

func (s *Store) Add(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		metadata := make(map[string]string, len(c.Metadata)+1)
		for k, v := range c.Metadata {
			metadata[k] = v
		}
		metadata["chunk_index"] = strconv.Itoa(c.Index)

		id := c.ID
		if id == "" {
			id = ChunkID(c.DocumentID, c.Index)
		}
		docs = append(docs, chromem.Document{
			ID:       id,
			Metadata: metadata,
			Content:  c.Text,
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Search returns up to k chunks, most similar first.
func (s *Store) Search(ctx context.Context, text string, k int) ([]domain.SourceNode, error) {
	if n := s.collection.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	nodes := make([]domain.SourceNode, 0, len(results))
	for _, r := range results {
		index, _ := strconv.Atoi(r.Metadata["chunk_index"])
		nodes = append(nodes, domain.SourceNode{
			Chunk: domain.Chunk{
				ID:         r.ID,
				DocumentID: r.Metadata["file_path"],
				Index:      index,
				Text:       r.Content,
				Metadata:   r.Metadata,
			},
			Score: float64(r.Similarity),
		})
	}
	return nodes, nil
}

func (s *Store) Count() int {
	return s.collection.Count()
}

// ChunkID is stable across runs for the same document and position.
func ChunkID(documentID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(documentID+"#"+strconv.Itoa(index))).String()
}
