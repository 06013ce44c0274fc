package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-1.5-flash"

// ContentGenerator is the slice of *genai.GenerativeModel the assistant needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures NewGeminiAssistant.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiAssistant answers through a Gemini model, scoping the prompt to the department.
type GeminiAssistant struct {
	model  ContentGenerator
	client *genai.Client
}

// NewGeminiAssistant dials Gemini with cfg.APIKey.
func NewGeminiAssistant(ctx context.Context, cfg GeminiConfig) (*GeminiAssistant, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: create gemini client: %w", err)
	}
	return &GeminiAssistant{model: client.GenerativeModel(cfg.Model), client: client}, nil
}

// NewGeminiAssistantWithModel wraps an existing generator.
func NewGeminiAssistantWithModel(model ContentGenerator) *GeminiAssistant {
	return &GeminiAssistant{model: model}
}

// SendMessage sends the department-scoped prompt and joins the text parts of the first candidate.
func (a *GeminiAssistant) SendMessage(ctx context.Context, text, department string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	resp, err := a.model.GenerateContent(ctx, genai.Text(Prompt(text, department)))
	if err != nil {
		return "", fmt.Errorf("assistant: generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("assistant: no content received")
	}
	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", errors.New("assistant: no text content received")
	}
	return strings.TrimSpace(out.String()), nil
}

// Close releases the underlying client when this assistant dialed it.
func (a *GeminiAssistant) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Prompt builds the model prompt for a message.
func Prompt(text, department string) string {
	return fmt.Sprintf(
		"You are an analytics assistant for a retail dashboard. The user is viewing the %s department. "+
			"Answer briefly using sales, inventory and review terminology.\n\nQuestion: %s",
		departmentLabel(department), text)
}
