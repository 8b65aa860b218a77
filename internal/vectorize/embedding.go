package vectorize

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// EmbeddingProvider maps texts to fixed-dimension dense vectors,
// order-preserving.
type EmbeddingProvider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}

// EmbeddingClientConfig configures the HTTP embedding client.
type EmbeddingClientConfig struct {
	BaseURL    string
	Model      string
	APIKey     string
	Dimensions int
	BatchSize  int
}

// EmbeddingClient calls an OpenAI-compatible embeddings endpoint.
type EmbeddingClient struct {
	client    *resty.Client
	model     string
	dims      int
	batchSize int
}

// NewEmbeddingClient creates an embedding client.
func NewEmbeddingClient(cfg *EmbeddingClientConfig) *EmbeddingClient {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}
	return &EmbeddingClient{
		client:    client,
		model:     cfg.Model,
		dims:      cfg.Dimensions,
		batchSize: batch,
	}
}

// Model returns the configured model name.
func (c *EmbeddingClient) Model() string {
	return c.model
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

// EmbedBatch embeds texts in configured batch sizes, preserving input order.
func (c *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		chunk, err := c.embedChunk(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (c *EmbeddingClient) embedChunk(ctx context.Context, texts []string) ([][]float64, error) {
	req := embeddingRequest{
		Model:      c.model,
		Input:      texts,
		Dimensions: c.dims,
	}

	var resp embeddingResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("failed to call embedding API: %w", err)
	}
	if httpResp.StatusCode() != 200 {
		if resp.Detail != "" {
			return nil, fmt.Errorf("embedding API error: %s", resp.Detail)
		}
		return nil, fmt.Errorf("embedding API error: status %d", httpResp.StatusCode())
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(resp.Data), len(texts))
	}

	// The API may return items out of order; place by index.
	vectors := make([][]float64, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
