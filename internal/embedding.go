package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Embedder converts text into fixed-dimension vectors. Identical input must
// produce identical output.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

// maxEmbeddingBatch is the largest input batch the OpenAI API accepts
const maxEmbeddingBatch = 100

// OpenAIEmbedder generates embeddings through the OpenAI API
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	apiKey     string
	clientOnce sync.Once
}

// NewOpenAIEmbedder creates an embedder with lazy client initialization
func NewOpenAIEmbedder(apiKey, model string, dimensions int) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
	}
}

// ModelName returns the embedding model identifier
func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// ensureClient initializes the OpenAI client if needed
func (e *OpenAIEmbedder) ensureClient() error {
	if e.client != nil {
		return nil
	}
	if e.apiKey == "" {
		return ValidateOpenAIAPIKey("")
	}
	e.clientOnce.Do(func() {
		client := openai.NewClient(option.WithAPIKey(e.apiKey))
		e.client = &client
	})
	return nil
}

// Embed generates embeddings for texts, batching requests as needed
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}
	if err := e.ensureClient(); err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbeddingBatch {
		end := min(start+maxEmbeddingBatch, len(texts))
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	}
	if e.dimensions > 0 {
		params.Dimensions = openai.Int(int64(e.dimensions))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vector := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vector[j] = float32(v)
		}
		vectors[i] = vector
	}
	return vectors, nil
}
