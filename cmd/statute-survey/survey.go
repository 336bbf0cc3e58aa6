// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/statute-survey/internal/cache"
	"github.com/pdiddy/statute-survey/internal/extract"
	"github.com/pdiddy/statute-survey/internal/fetch"
	"github.com/pdiddy/statute-survey/internal/logging"
	"github.com/pdiddy/statute-survey/internal/survey"
	"github.com/pdiddy/statute-survey/pkg/types"
)

var surveyCmd = &cobra.Command{
	Use:   "survey [query]",
	Short: "Run one query against state jurisdictions and wait for results",
	Long: `Survey fans the query out across the selected jurisdictions (all fifty
by default), runs each through the cache, fetch, extract, and audit pipeline,
and prints the trust-classified results when the session settles.

Interrupting the run (Ctrl-C) cancels the session: jurisdictions already
settled are printed, the rest are abandoned.`,
	RunE: runSurvey,
}

func init() {
	surveyCmd.Flags().String("jurisdictions", "", "comma-separated two-letter state codes (default: all fifty)")
	surveyCmd.Flags().Bool("simulate", false, "use the deterministic simulation provider; no network, no cache")
	surveyCmd.Flags().Bool("no-cache", false, "skip cache lookups and stores for this run")
	surveyCmd.Flags().String("output", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(surveyCmd)
}

func runSurvey(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("provide a research query, e.g. \"statute of limitations for fraud\"")
	}

	codesFlag, _ := cmd.Flags().GetString("jurisdictions")
	simulate, _ := cmd.Flags().GetBool("simulate")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	output, _ := cmd.Flags().GetString("output")

	var codes []string
	if codesFlag != "" {
		codes = strings.Split(codesFlag, ",")
	}
	jurisdictions, err := types.ParseJurisdictions(codes)
	if err != nil {
		return err
	}

	cfg := engineConfig()
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	chain, err := extract.BuildChain(cfg.Extraction, logger)
	if err != nil {
		return err
	}
	if simulate {
		chain = extract.NewChain([]extract.Provider{extract.NewSimulationProvider()}, cfg.Extraction.Timeout, logger)
	}

	// Simulation results are deterministic fixtures; they never touch the
	// cache or the network.
	simulated := chain.Active() != nil && chain.Active().Name() == "simulation"

	var (
		gateway survey.CacheGateway
		fetcher survey.SourceFetcher
	)
	if !simulated {
		f, err := fetch.New(cfg.Fetch, logger)
		if err != nil {
			return err
		}
		fetcher = f

		if !noCache {
			gw, err := cache.New(cfg.Cache, logger)
			if err != nil {
				return err
			}
			defer gw.Close()
			gateway = gw
		}
	}

	repo := survey.NewInMemoryRepository()
	orch := survey.New(repo, gateway, fetcher, chain, cfg.Orchestrator, logger)

	session, err := orch.Submit(survey.SubmitRequest{Query: query, Jurisdictions: jurisdictions})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		orch.Cancel(session.ID)
	}()

	if err := orch.Wait(context.Background(), session.ID); err != nil {
		return err
	}
	stop()

	final, ok := repo.Get(session.ID)
	if !ok {
		return fmt.Errorf("session %d disappeared", session.ID)
	}
	return formatSurveyOutput(final, output)
}

func formatSurveyOutput(session *types.SurveySession, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(session)
	case "table":
		printSurveyTable(session)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}

func printSurveyTable(session *types.SurveySession) {
	codes := make([]types.JurisdictionCode, 0, len(session.Results))
	for code := range session.Results {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-5s  %-40s  %-12s  %s\n",
		"Code", "Trust", "Conf", "Citation", "Effective", "Note")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))

	verified, unverified, suspicious, failed := 0, 0, 0, 0
	for _, code := range codes {
		outcome := session.Results[code]
		if outcome.Failure != nil {
			failed++
			fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-5s  %-40s  %-12s  %s\n",
				code, "failed", "-", "-", "-", outcome.Failure.Kind)
			continue
		}

		r := outcome.Record
		switch r.TrustLevel {
		case types.TrustVerified:
			verified++
		case types.TrustUnverified:
			unverified++
		default:
			suspicious++
		}

		citation := r.Citation
		if len(citation) > 40 {
			citation = citation[:37] + "..."
		}
		note := ""
		if outcome.FromCache {
			note = "cached"
		}
		fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-5d  %-40s  %-12s  %s\n",
			code, r.TrustLevel, r.ConfidenceScore, citation, r.EffectiveDate, note)
	}

	fmt.Fprintf(os.Stdout, "\nSession %d %s: %d verified, %d unverified, %d suspicious, %d failed (%d/%d settled)\n",
		session.ID, session.Status, verified, unverified, suspicious, failed,
		len(session.Results), len(session.Jurisdictions))
}
