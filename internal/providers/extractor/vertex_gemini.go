package extractor

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/yoockh/cv-enhancer/internal/models"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Extract(ctx context.Context, data []byte, mimeType string) (*models.ExtractedCV, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var doc vertexgenai.Part = vertexgenai.Blob{MIMEType: mimeType, Data: data}
	if isText(mimeType) {
		doc = vertexgenai.Text(string(data))
	}

	resp, err := v.model.GenerateContent(ctx, doc, vertexgenai.Text(Prompt))
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		// first candidate with content wins
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return nil, ErrNoContent
	}
	return Decode(sb.String())
}
