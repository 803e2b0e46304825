package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fixme/internal/types"
)

// GeminiSuggester implements Suggester using Google's Gemini models.
type GeminiSuggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiSuggester initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiSuggester(ctx context.Context, apiKey string) (*GeminiSuggester, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiSuggester{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiSuggester) Close() {
	p.client.Close()
}

// SuggestService maps a free-text problem description onto the service catalog.
func (p *GeminiSuggester) SuggestService(ctx context.Context, description string) (*Suggestion, error) {
	fullPrompt := fmt.Sprintf("%s\n\nCustomer description: %s", suggestPrompt(), description)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// Strip markdown fencing in case JSON mode did not apply.
	cleanJSON := cleanJSONString(responseText.String())

	var result Suggestion
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	// Never pass a value outside the catalog downstream; the customer picks
	// manually when the model drifts.
	if _, ok := types.ParseServiceType(result.ServiceType); !ok {
		return nil, fmt.Errorf("model returned unknown service type %q", result.ServiceType)
	}

	return &result, nil
}

func suggestPrompt() string {
	return `Role: You are the intake assistant for a roadside-assistance and garage marketplace.

Task: Read the customer's free-text description of a vehicle problem and pick
the single best matching service type.

Catalog (pick exactly one):
- GARAGE: general mechanical problems that need a workshop visit.
- OIL_CHANGE: oil or fluid change requests.
- BRAKES: brake noise, weak braking, brake wear.
- TIRES: flat tire, puncture, tire replacement, wheel balance.
- GLASS: cracked or broken windshield / windows.
- FULL_SERVICE: periodic full inspection or scheduled maintenance.
- TOWING: vehicle cannot move and must be transported.

Rules:
1. If the vehicle cannot move at all, prefer TOWING even when another category
   also applies.
2. If nothing fits clearly, fall back to GARAGE with low confidence.
3. "reply" is one short sentence to the customer, plain language, no markdown.

Output JSON Schema:
{
  "service_type": "GARAGE" | "OIL_CHANGE" | "BRAKES" | "TIRES" | "GLASS" | "FULL_SERVICE" | "TOWING",
  "confidence": number between 0 and 1,
  "reply": "string (user facing)"
}
`
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
