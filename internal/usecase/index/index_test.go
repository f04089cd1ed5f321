package index

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/domain"
)

type fakeRetriever struct {
	added   []domain.Chunk
	nodes   []domain.SourceNode
	lastK   int
	lastTxt string
}

func (f *fakeRetriever) Add(_ context.Context, chunks []domain.Chunk) error {
	f.added = append(f.added, chunks...)
	return nil
}

func (f *fakeRetriever) Search(_ context.Context, text string, k int) ([]domain.SourceNode, error) {
	f.lastTxt = text
	f.lastK = k
	return f.nodes, nil
}

type fakeClient struct {
	answer string
	err    error
	reqs   []CompletionRequest
}

func (f *fakeClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.answer, f.err
}

// wordTokenizer treats every whitespace-separated word as one token.
type wordTokenizer struct {
	vocab []string
	ids   map[string]int
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: make(map[string]int)}
}

func (w *wordTokenizer) Encode(text string) []int {
	words := strings.Fields(text)
	tokens := make([]int, len(words))
	for i, word := range words {
		id, ok := w.ids[word]
		if !ok {
			id = len(w.vocab)
			w.vocab = append(w.vocab, word)
			w.ids[word] = id
		}
		tokens[i] = id
	}
	return tokens
}

func (w *wordTokenizer) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i, id := range tokens {
		words[i] = w.vocab[id]
	}
	return strings.Join(words, " ")
}

// runeTokenizer treats every rune as one token, spaces included.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = rune(t)
	}
	return string(runes)
}

func testSettings() Settings {
	return Settings{
		Model:           "gpt-3.5-turbo",
		Temperature:     0.1,
		MaxInputSize:    4096,
		NumOutput:       256,
		MaxChunkOverlap: 20,
		TopK:            1,
	}
}

func TestFromDocuments_SplitsEveryDocument(t *testing.T) {
	settings := testSettings()
	settings.NumOutput = 10
	tok := newWordTokenizer()
	settings.MaxInputSize = len(tok.Encode(questionPrompt("", ""))) + 6 + settings.NumOutput
	settings.MaxChunkOverlap = 2
	store := &fakeRetriever{}
	docs := []domain.Document{
		{ID: "pdf/a.txt", Name: "a.txt", Path: "pdf/a.txt", Text: "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10"},
		{ID: "pdf/b.txt", Name: "b.txt", Path: "pdf/b.txt", Text: "short"},
	}

	ix, err := FromDocuments(context.Background(), docs, store, &fakeClient{}, tok, settings)

	require.NoError(t, err)
	require.NotNil(t, ix)
	require.Len(t, store.added, 3)
	assert.Equal(t, "w1 w2 w3 w4 w5 w6", store.added[0].Text)
	assert.Equal(t, "w5 w6 w7 w8 w9 w10", store.added[1].Text)
	assert.Equal(t, 1, store.added[1].Index)
	assert.Equal(t, "pdf/b.txt", store.added[2].DocumentID)
	assert.Equal(t, "b.txt", store.added[2].Metadata["file_name"])
}

func TestFromDocuments_NoDocuments(t *testing.T) {
	store := &fakeRetriever{}

	ix, err := FromDocuments(context.Background(), nil, store, &fakeClient{}, newWordTokenizer(), testSettings())

	require.NoError(t, err)
	assert.NotNil(t, ix)
	assert.Empty(t, store.added)
}

func TestFromDocuments_BudgetTooSmall(t *testing.T) {
	settings := testSettings()
	settings.MaxInputSize = 20
	settings.NumOutput = 10

	_, err := FromDocuments(context.Background(), nil, &fakeRetriever{}, &fakeClient{}, newWordTokenizer(), settings)

	assert.ErrorIs(t, err, ErrPromptTooLarge)
}

func TestVectorIndex_Query(t *testing.T) {
	store := &fakeRetriever{nodes: []domain.SourceNode{
		{Chunk: domain.Chunk{Text: "Paris is the capital of France."}, Score: 0.9},
	}}
	client := &fakeClient{answer: "  Paris.\n"}
	ix, err := FromDocuments(context.Background(), nil, store, client, newWordTokenizer(), testSettings())
	require.NoError(t, err)

	resp, err := ix.Query(context.Background(), "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, "Paris.", resp.Response)
	assert.Len(t, resp.SourceNodes, 1)
	assert.Equal(t, "What is the capital of France?", store.lastTxt)
	assert.Equal(t, 1, store.lastK)

	require.Len(t, client.reqs, 1)
	req := client.reqs[0]
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.Equal(t, 256, req.MaxTokens)
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.Contains(t, req.Prompt, "Paris is the capital of France.")
	assert.Contains(t, req.Prompt, "answer the question: What is the capital of France?")
}

func TestVectorIndex_QueryClientError(t *testing.T) {
	boom := errors.New("boom")
	ix, err := FromDocuments(context.Background(), nil, &fakeRetriever{}, &fakeClient{err: boom}, newWordTokenizer(), testSettings())
	require.NoError(t, err)

	_, err = ix.Query(context.Background(), "anything")

	assert.ErrorIs(t, err, boom)
}

func TestFromDocuments_SplitsTextWithoutSpaces(t *testing.T) {
	store := &fakeRetriever{}
	settings := testSettings()
	text := strings.Repeat("文档内容", 20000)
	docs := []domain.Document{{ID: "pdf/cn.pdf", Name: "cn.pdf", Path: "pdf/cn.pdf", Text: text}}

	_, err := FromDocuments(context.Background(), docs, store, &fakeClient{}, runeTokenizer{}, settings)

	require.NoError(t, err)
	size := settings.MaxInputSize - settings.NumOutput - utf8.RuneCountInString(questionPrompt("", ""))
	require.Greater(t, len(store.added), 1)
	for _, c := range store.added {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), size)
	}
}

func TestVectorIndex_QueryTruncatesUnspacedContext(t *testing.T) {
	store := &fakeRetriever{nodes: []domain.SourceNode{
		{Chunk: domain.Chunk{Text: strings.Repeat("文", 80000)}},
	}}
	client := &fakeClient{answer: "ok"}
	settings := testSettings()
	ix, err := FromDocuments(context.Background(), nil, store, client, runeTokenizer{}, settings)
	require.NoError(t, err)

	_, err = ix.Query(context.Background(), "问题")

	require.NoError(t, err)
	require.Len(t, client.reqs, 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(client.reqs[0].Prompt), settings.MaxInputSize-settings.NumOutput)
}

type recordingQuerier struct {
	texts []string
}

func (r *recordingQuerier) Query(_ context.Context, text string) (*domain.Response, error) {
	r.texts = append(r.texts, text)
	return &domain.Response{Response: "ok"}, nil
}

func TestPrompted_ForwardsPromptThenQuery(t *testing.T) {
	inner := &recordingQuerier{}
	p := WithPrompt(inner)

	resp, err := p.Query(context.Background(), "X", "P")
	require.NoError(t, err)
	_, err = p.Query(context.Background(), "question", "")
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Response)
	assert.Equal(t, []string{"PX", "question"}, inner.texts)
}
