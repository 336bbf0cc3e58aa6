package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the hard per-attempt deadline for one HTTP call (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "statute-survey/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the source fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxAttempts is the total number of fetch attempts per jurisdiction
	// (default 3). Retries apply only to rate-limit, server-error, and
	// network failures.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// SourceURLTemplate is the statute-search URL per jurisdiction. The
	// literal "{jurisdiction}" is replaced with the two-letter code.
	SourceURLTemplate string `json:"source_url_template" yaml:"source_url_template"`

	// ProxyURL optionally routes outbound fetches through a proxy. The
	// fetch contract is unchanged; only the transport differs.
	ProxyURL string `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty"`

	// ProxyKey authenticates to the proxy when ProxyURL is set.
	ProxyKey string `json:"proxy_key,omitempty" yaml:"proxy_key,omitempty"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Model is the generation model identifier (e.g. "gemini-2.0-flash").
	// Empty selects each provider's own default.
	Model string `json:"model" yaml:"model"`

	// Providers is the ordered fallback list of provider names
	// ("gemini", "openai", "simulation"). The first provider with
	// credentials present is used.
	Providers []string `json:"providers" yaml:"providers"`

	// GeminiAPIKey authenticates the Gemini provider.
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`

	// OpenAIAPIKey authenticates the OpenAI-compatible provider.
	OpenAIAPIKey string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`

	// OpenAIBaseURL overrides the chat-completions endpoint base.
	OpenAIBaseURL string `json:"openai_base_url,omitempty" yaml:"openai_base_url,omitempty"`

	// Timeout is the hard deadline for one extraction call (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CacheConfig holds settings for the verified-result cache.
type CacheConfig struct {
	// Path is the SQLite database file (default "data/statute-cache.db").
	Path string `json:"path" yaml:"path"`

	// MinStoreConfidence gates cache writes: records at or below this
	// confidence are not stored (default 80).
	MinStoreConfidence int `json:"min_store_confidence" yaml:"min_store_confidence"`
}

// OrchestratorConfig holds settings for survey dispatch.
type OrchestratorConfig struct {
	// ChunkSize is the number of jurisdiction jobs run fully in parallel
	// per dispatch round (default 5).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkDelay is the pause between dispatch rounds, to respect
	// third-party rate limits (default 1s).
	ChunkDelay time.Duration `json:"chunk_delay" yaml:"chunk_delay"`

	// MaxConcurrentSurveys caps running sessions; further submissions are
	// rejected, not queued (default 5).
	MaxConcurrentSurveys int `json:"max_concurrent_surveys" yaml:"max_concurrent_surveys"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// JSON switches from console to JSON encoding.
	JSON bool `json:"json" yaml:"json"`
}

// SurveyEngineConfig groups all stage configurations.
type SurveyEngineConfig struct {
	Fetch        FetchConfig        `json:"fetch" yaml:"fetch"`
	Extraction   ExtractionConfig   `json:"extraction" yaml:"extraction"`
	Cache        CacheConfig        `json:"cache" yaml:"cache"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Server       ServerConfig       `json:"server" yaml:"server"`
	Logging      LoggingConfig      `json:"logging" yaml:"logging"`
}
