package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	model     *vertexgenai.GenerativeModel
	modelName string
}

// NewVertexGemini builds a Gemini model constrained to JSON output matching schema.
// A nil schema only constrains the MIME type.
func NewVertexGemini(ctx context.Context, projectID, location, modelName string, schema *vertexgenai.Schema) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = schema
	m.SetTemperature(0.1)

	return &VertexGemini{client: c, model: m, modelName: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Model() string { return v.modelName }

func (v *VertexGemini) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
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
		return "", errors.New("gemini returned no text")
	}
	return sb.String(), nil
}
