package extractor

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
	"github.com/yoockh/cv-enhancer/internal/models"
)

// LangchainGemini talks to the Gemini API with an API key instead of Vertex credentials.
type LangchainGemini struct {
	client *googleai.GoogleAI
}

func NewLangchainGemini(ctx context.Context, apiKey, modelName string) (*LangchainGemini, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, err
	}
	return &LangchainGemini{client: llm}, nil
}

// Close is a no-op; the googleai model owns no closable handle.
func (g *LangchainGemini) Close() error { return nil }

func (g *LangchainGemini) Extract(ctx context.Context, data []byte, mimeType string) (*models.ExtractedCV, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var doc llms.ContentPart = llms.BinaryPart(mimeType, data)
	if isText(mimeType) {
		doc = llms.TextPart(string(data))
	}

	msgs := []llms.MessageContent{{
		Role:  schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{doc, llms.TextPart(Prompt)},
	}}

	resp, err := g.client.GenerateContent(ctx, msgs,
		llms.WithJSONMode(),
		llms.WithTemperature(0),
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, ErrNoContent
	}
	return Decode(resp.Choices[0].Content)
}
