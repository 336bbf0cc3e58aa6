// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/statute-survey/internal/api"
	"github.com/pdiddy/statute-survey/internal/cache"
	"github.com/pdiddy/statute-survey/internal/extract"
	"github.com/pdiddy/statute-survey/internal/fetch"
	"github.com/pdiddy/statute-survey/internal/logging"
	"github.com/pdiddy/statute-survey/internal/survey"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the polling HTTP API",
	Long: `Serve starts the HTTP API. Surveys are submitted with POST /api/surveys
and polled via GET /api/surveys/:id and /api/surveys/:id/progress; DELETE
cancels a running session. Responses carry an X-Request-ID header.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	cfg.Logging.JSON = true

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	chain, err := extract.BuildChain(cfg.Extraction, logger)
	if err != nil {
		return err
	}

	var (
		gateway survey.CacheGateway
		fetcher survey.SourceFetcher
	)
	if chain.Active() == nil || chain.Active().Name() != "simulation" {
		f, err := fetch.New(cfg.Fetch, logger)
		if err != nil {
			return err
		}
		fetcher = f

		gw, err := cache.New(cfg.Cache, logger)
		if err != nil {
			return err
		}
		defer gw.Close()
		gateway = gw
	}

	repo := survey.NewInMemoryRepository()
	orch := survey.New(repo, gateway, fetcher, chain, cfg.Orchestrator, logger)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	return api.NewServer(orch, repo, logger).Run(addr)
}
