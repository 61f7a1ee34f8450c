package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiService wraps the reasoning service. One request in, one text
// payload out; retries are the caller's responsibility.
type GeminiService interface {
	GenerateWithDocument(ctx context.Context, prompt string, document []byte, mediaType string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiService(apiKey string) (GeminiService, error) {
	s := &geminiService{
		modelName:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
	}

	if apiKey == "" {
		// Leave client nil; calls report the missing setting.
		return s, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	s.client = client

	return s, nil
}

// GenerateWithDocument implements GeminiService. The document travels as an
// inline part next to the instruction text in a single multi-part request.
func (g *geminiService) GenerateWithDocument(ctx context.Context, prompt string, document []byte, mediaType string) (string, error) {
	if g.client == nil {
		return "", &ConfigurationError{Setting: "GEMINI_API_KEY"}
	}

	temperature := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(document, mediaType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", &UpstreamError{Op: "screening call", Err: err}
	}

	if resp == nil {
		return "", &UpstreamError{Op: "screening call", Body: "nil response"}
	}

	text := resp.Text()
	if text == "" {
		return "", &UpstreamError{Op: "screening call", Body: "no text content in response"}
	}

	return text, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if g.client == nil {
		return nil, &ConfigurationError{Setting: "GEMINI_API_KEY"}
	}

	// Truncate text if too long for the embedding model
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, &UpstreamError{Op: "embedding call", Err: err}
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, &UpstreamError{Op: "embedding call", Body: "empty embedding result"}
	}

	return result.Embeddings[0].Values, nil
}
