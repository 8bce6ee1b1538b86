package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbeddingAPI struct {
	embedding []float32
	err       error
	calls     int
}

func (m *mockEmbeddingAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	return m.embedding, m.err
}

type mockCompletionAPI struct {
	text  string
	err   error
	calls int
}

func (m *mockCompletionAPI) CreateCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	return m.text, m.err
}

func validEmbedding() []float32 {
	return make([]float32, DefaultEmbeddingDimensions)
}

func TestGenerateEmbedding_Success(t *testing.T) {
	api := &mockEmbeddingAPI{embedding: validEmbedding()}
	client := &Client{embeddings: api, dimensions: DefaultEmbeddingDimensions}

	embedding, err := client.GenerateEmbedding(context.Background(), "expense ratio")

	require.NoError(t, err)
	assert.Len(t, embedding, DefaultEmbeddingDimensions)
	assert.Equal(t, 1, api.calls)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	api := &mockEmbeddingAPI{embedding: validEmbedding()}
	client := &Client{embeddings: api, dimensions: DefaultEmbeddingDimensions}

	_, err := client.GenerateEmbedding(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, 0, api.calls)
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	api := &mockEmbeddingAPI{embedding: make([]float32, 10)}
	client := &Client{embeddings: api, dimensions: DefaultEmbeddingDimensions}

	_, err := client.GenerateEmbedding(context.Background(), "nav")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbedding_APIError(t *testing.T) {
	api := &mockEmbeddingAPI{err: errors.New("rate limited")}
	client := &Client{embeddings: api, dimensions: DefaultEmbeddingDimensions}

	_, err := client.GenerateEmbedding(context.Background(), "nav")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestComplete_Success(t *testing.T) {
	api := &mockCompletionAPI{text: "The expense ratio is 1.05%."}
	client := &Client{completions: api}

	text, err := client.Complete(context.Background(), "system", "user")

	require.NoError(t, err)
	assert.Equal(t, "The expense ratio is 1.05%.", text)
	assert.Equal(t, 1, api.calls)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	api := &mockCompletionAPI{text: "ignored"}
	client := &Client{completions: api}

	_, err := client.Complete(context.Background(), "system", "")

	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, 0, api.calls)
}

func TestComplete_APIError(t *testing.T) {
	api := &mockCompletionAPI{err: errors.New("model overloaded")}
	client := &Client{completions: api}

	_, err := client.Complete(context.Background(), "system", "user")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewClientFromEnv()

	assert.ErrorIs(t, err, ErrNoAPIKey)
}
