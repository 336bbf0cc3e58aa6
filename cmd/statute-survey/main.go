// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the statute-survey CLI.
// Implements: prd005-orchestration, prd006-http-api (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/statute-survey/internal/secrets"
	"github.com/pdiddy/statute-survey/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the statute-survey CLI.
var rootCmd = &cobra.Command{
	Use:   "statute-survey",
	Short: "Survey statutes of limitations across US state jurisdictions",
	Long: `statute-survey runs one legal research query against all fifty US state
jurisdictions concurrently. Each jurisdiction passes through a cache, fetch,
extract, and audit pipeline; extracted candidates are trust-classified before
they reach the result set.

Run a one-shot survey with the survey subcommand, or start the polling HTTP
API with serve. The cache subcommand inspects and clears the verified-result
cache.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; missing files are fine.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./statute-survey.yaml or ~/.config/statute-survey/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default info)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("statute-survey")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "statute-survey"))
		}
	}

	viper.SetEnvPrefix("STATUTE_SURVEY")
	viper.AutomaticEnv()

	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.user_agent", "statute-survey/0.1")
	viper.SetDefault("fetch.max_attempts", 3)
	viper.SetDefault("fetch.source_url_template", "https://statutes.example.gov/{jurisdiction}/search")
	viper.SetDefault("extraction.providers", []string{"gemini", "openai", "simulation"})
	viper.SetDefault("extraction.timeout", 60*time.Second)
	viper.SetDefault("cache.path", "data/statute-cache.db")
	viper.SetDefault("cache.min_store_confidence", 80)
	viper.SetDefault("orchestrator.chunk_size", 5)
	viper.SetDefault("orchestrator.chunk_delay", time.Second)
	viper.SetDefault("orchestrator.max_concurrent_surveys", 5)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the stage configurations from viper, the
// environment, and the secrets directory.
func engineConfig() types.SurveyEngineConfig {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	if logLevel == "" {
		logLevel = viper.GetString("logging.level")
	}

	return types.SurveyEngineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			MaxAttempts:       viper.GetInt("fetch.max_attempts"),
			SourceURLTemplate: viper.GetString("fetch.source_url_template"),
			ProxyURL:          viper.GetString("fetch.proxy_url"),
			ProxyKey:          secretDefault("proxy-key", viper.GetString("fetch.proxy_key")),
		},
		Extraction: types.ExtractionConfig{
			Model:         viper.GetString("extraction.model"),
			Providers:     viper.GetStringSlice("extraction.providers"),
			GeminiAPIKey:  secretDefault("gemini-api-key", viper.GetString("extraction.gemini_api_key")),
			OpenAIAPIKey:  secretDefault("openai-api-key", viper.GetString("extraction.openai_api_key")),
			OpenAIBaseURL: viper.GetString("extraction.openai_base_url"),
			Timeout:       viper.GetDuration("extraction.timeout"),
		},
		Cache: types.CacheConfig{
			Path:               viper.GetString("cache.path"),
			MinStoreConfidence: viper.GetInt("cache.min_store_confidence"),
		},
		Orchestrator: types.OrchestratorConfig{
			ChunkSize:            viper.GetInt("orchestrator.chunk_size"),
			ChunkDelay:           viper.GetDuration("orchestrator.chunk_delay"),
			MaxConcurrentSurveys: viper.GetInt("orchestrator.max_concurrent_surveys"),
		},
		Server: types.ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
		Logging: types.LoggingConfig{
			Level: logLevel,
			JSON:  viper.GetBool("logging.json"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
