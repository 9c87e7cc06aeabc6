// Package ai wraps the generative and vision clients behind small,
// exchangeable adapters.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const pngFormat = "png"

// descriptionPrompt mirrors the instruction set the marketplace frontend was
// built against; the 200-character bound is advisory to the model, not
// enforced on the output.
var descriptionPrompt = []genai.Part{
	genai.Text("Genera una descripción detallada para vender este producto online."),
	genai.Text("Incluye características clave, materiales y condición."),
	genai.Text("Sé conciso pero persuasivo (máx 200 caracteres)."),
}

const suggestionPrompt = `Clasifica el siguiente producto para un marketplace.
Responde únicamente con JSON de la forma {"category": "...", "tags": ["..."]}.
category debe ser una de: Electronics, Accessories, Furniture, Clothing, Other.
tags: máximo 5 etiquetas cortas en minúsculas.

Producto: %s`

const maxSuggestedTags = 5

// Suggestion is the structured classification hint returned by the model.
type Suggestion struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Gemini generates sales copy and classification suggestions. The two model
// handles share one client; the suggestion handle is pinned to JSON output so
// the response can be parsed strictly.
type Gemini struct {
	descModel    *genai.GenerativeModel
	suggestModel *genai.GenerativeModel
}

func NewGemini(client *genai.Client, modelName string) *Gemini {
	suggest := client.GenerativeModel(modelName)
	suggest.ResponseMIMEType = "application/json"

	return &Gemini{
		descModel:    client.GenerativeModel(modelName),
		suggestModel: suggest,
	}
}

// Describe asks the model for sales copy for the pictured product.
func (g *Gemini) Describe(ctx context.Context, imageBytes []byte) (string, error) {
	parts := append([]genai.Part{}, descriptionPrompt...)
	parts = append(parts, genai.ImageData(pngFormat, imageBytes))

	resp, err := g.descModel.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("generate description: model returned no text")
	}
	return text, nil
}

// Suggest asks the model for a category and up to five tags for a product
// description. The response must be valid JSON matching Suggestion exactly;
// anything else is an error so the classifier can fall back.
func (g *Gemini) Suggest(ctx context.Context, description string) (Suggestion, error) {
	resp, err := g.suggestModel.GenerateContent(ctx,
		genai.Text(fmt.Sprintf(suggestionPrompt, description)))
	if err != nil {
		return Suggestion{}, fmt.Errorf("suggest classification: %w", err)
	}

	return ParseSuggestion(responseText(resp))
}

// ParseSuggestion validates the model's JSON reply. Model output is data,
// never code: unknown fields, a missing category, or trailing content all
// fail the parse.
func ParseSuggestion(raw string) (Suggestion, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()

	var s Suggestion
	if err := dec.Decode(&s); err != nil {
		return Suggestion{}, fmt.Errorf("parse suggestion: %w", err)
	}
	if dec.More() {
		return Suggestion{}, fmt.Errorf("parse suggestion: trailing content after JSON object")
	}
	if strings.TrimSpace(s.Category) == "" {
		return Suggestion{}, fmt.Errorf("parse suggestion: missing category")
	}
	if len(s.Tags) > maxSuggestedTags {
		s.Tags = s.Tags[:maxSuggestedTags]
	}
	return s, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var buf bytes.Buffer
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			buf.WriteString(string(text))
		}
	}
	return strings.TrimSpace(buf.String())
}
