// Package narrator turns a weather snapshot into a spoken-style forecast text
// using the Gemini API.
package narrator

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Viacheslav828206/WeatherBot/internal/weather"
)

//go:embed prompt.txt
var promptTemplate string

type Generator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a Gemini-backed narration generator.
func New(ctx context.Context, apiKey string) (*Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.9)
	model.SetTopP(1)
	model.SetTopK(1)
	model.SetMaxOutputTokens(2048)

	return &Generator{client: client, model: model}, nil
}

// Describe generates a playful forecast text for the snapshot.
func (g *Generator) Describe(ctx context.Context, snap *weather.Snapshot) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, snap.Summary())

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate forecast text: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("gemini returned empty text")
	}
	return out, nil
}

func (g *Generator) Close() error {
	return g.client.Close()
}
