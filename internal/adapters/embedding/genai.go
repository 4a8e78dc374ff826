package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-embedding-001"

// GenAIAdapter generates embeddings using Google's Gemini API.
type GenAIAdapter struct {
	client   *genai.Client
	model    string
	taskType string
}

// NewGenAIAdapter creates a Gemini embedding adapter. taskType defaults to
// SEMANTIC_SIMILARITY, which suits comparing a conversation with verses.
func NewGenAIAdapter(ctx context.Context, apiKey, model, taskType string) (*GenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultGenAIModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIAdapter{
		client:   client,
		model:    model,
		taskType: parseTaskType(taskType),
	}, nil
}

func parseTaskType(s string) string {
	switch s {
	case "CLASSIFICATION", "CLUSTERING", "RETRIEVAL_DOCUMENT", "RETRIEVAL_QUERY", "QUESTION_ANSWERING":
		return s
	default:
		return "SEMANTIC_SIMILARITY"
	}
}

// Embed generates an embedding for a single text.
func (a *GenAIAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := a.client.Models.EmbedContent(ctx, a.model, contents, &genai.EmbedContentConfig{
		TaskType: a.taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return result.Embeddings[0].Values, nil
}

// Name returns the adapter name.
func (a *GenAIAdapter) Name() string {
	return fmt.Sprintf("genai:%s", a.model)
}
