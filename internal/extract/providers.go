// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/pkg/types"
)

// defaultProviderOrder is used when config names no providers. Simulation
// is not included by default; it must be asked for.
var defaultProviderOrder = []string{"gemini", "openai"}

// BuildChain assembles the fallback chain named by cfg.Providers, in
// order. Unknown provider names are an error; unconfigured providers are
// included and skipped at call time, so preference order is visible in
// one place.
func BuildChain(cfg types.ExtractionConfig, logger *zap.Logger) (*Chain, error) {
	names := cfg.Providers
	if len(names) == 0 {
		names = defaultProviderOrder
	}

	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		switch name {
		case "gemini":
			providers = append(providers, NewGeminiProvider(cfg.GeminiAPIKey, cfg.Model))
		case "openai":
			providers = append(providers, NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model))
		case "simulation":
			providers = append(providers, NewSimulationProvider())
		default:
			return nil, fmt.Errorf("unknown extraction provider %q", name)
		}
	}

	return NewChain(providers, cfg.Timeout, logger), nil
}
