// Package gemini turns a found-item photo into descriptive attributes using
// the Gemini API. The model's answer is treated as an opaque upstream: it is
// stored as-is when it parses and surfaced as an analysis failure when it
// does not.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/foundit-campus/foundit-api/models"
)

// ErrAnalysis is the typed failure for the external AI call, covering both
// transport errors and unparsable model output. Callers must not create a
// partial item record when they see it.
var ErrAnalysis = errors.New("image analysis failed")

const prompt = `Return a JSON object with:
"title", "category", "color", "brand",
"tags" (an array of 5 keywords like ["bottle", "silver", "milton", "metal", "water"])`

// Models occasionally wrap JSON in markdown fences despite the prompt.
var fenceRegexp = regexp.MustCompile("(?i)```json|```")

// Analyzer is the image-to-attributes contract the upload handler consumes.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (*models.ItemAttributes, error)
}

// Service calls the Gemini API. Model defaults are set by config; the zero
// value is not usable without an API key.
type Service struct {
	APIKey string
	Model  string
}

// Analyze sends the image inline with the attribute prompt and decodes the
// JSON answer.
func (s *Service) Analyze(ctx context.Context, image []byte, mimeType string) (*models.ItemAttributes, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating client: %v", ErrAnalysis, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, s.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	return ParseAttributes(result.Text())
}

// ParseAttributes strips markdown fences from the model output and decodes
// the attribute JSON. Exported so the cleaning rules are testable without a
// live model.
func ParseAttributes(text string) (*models.ItemAttributes, error) {
	cleaned := strings.TrimSpace(fenceRegexp.ReplaceAllString(text, ""))
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrAnalysis)
	}
	attrs := &models.ItemAttributes{}
	if err := json.Unmarshal([]byte(cleaned), attrs); err != nil {
		return nil, fmt.Errorf("%w: unparsable response: %v", ErrAnalysis, err)
	}
	return attrs, nil
}
