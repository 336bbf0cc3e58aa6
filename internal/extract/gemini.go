// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/pdiddy/statute-survey/pkg/types"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider extracts candidate records through the Gemini API with a
// JSON-constrained response.
type GeminiProvider struct {
	apiKey string
	model  string

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGeminiProvider builds the provider. The client is created lazily on
// first use so an unconfigured provider costs nothing.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Configured() bool { return p.apiKey != "" }

func (p *GeminiProvider) init(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		p.client, p.clientErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: p.apiKey,
		})
	})
	return p.client, p.clientErr
}

// Extract calls Gemini with the shared extraction prompt and decodes the
// JSON reply into a candidate record.
func (p *GeminiProvider) Extract(ctx context.Context, req Request) (types.CandidateRecord, error) {
	client, err := p.init(ctx)
	if err != nil {
		return types.CandidateRecord{}, fmt.Errorf("creating gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model,
		genai.Text(buildPrompt(req)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return types.CandidateRecord{}, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return types.CandidateRecord{}, fmt.Errorf("%w: empty gemini response", ErrMalformedResponse)
	}
	return parseCandidate(text)
}
