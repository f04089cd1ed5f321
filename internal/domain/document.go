package domain

// Document is the raw text of one file, identified by its path.
type Document struct {
	ID   string
	Name string
	Path string
	Text string
}

// Chunk is a piece of a document stored in the vector index.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Text       string
	Metadata   map[string]string
}

type SourceNode struct {
	Chunk Chunk
	Score float64
}

// Response is what an index query produces: the answer text plus the chunks it was built from.
type Response struct {
	Response    string
	SourceNodes []SourceNode
}
