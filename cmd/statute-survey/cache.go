// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/statute-survey/internal/cache"
	"github.com/pdiddy/statute-survey/internal/logging"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the verified-result cache",
	Long: `Cache manages the local SQLite result cache. Entries are keyed by
jurisdiction and query fingerprint; only high-confidence records are stored.`,
}

var cacheListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"inspect"},
	Short:   "List cached statute records",
	RunE:    runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached statute records",
	RunE:  runCacheClear,
}

func init() {
	cacheListCmd.Flags().Bool("json", false, "output entries as JSON")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache() (*cache.Gateway, error) {
	cfg := engineConfig()
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.Cache, logger)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	gw, err := openCache()
	if err != nil {
		return err
	}
	defer gw.Close()

	entries, err := gw.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Cache is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-16s  %-12s  %-5s  %-40s  %s\n",
		"Code", "Fingerprint", "Trust", "Conf", "Citation", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, e := range entries {
		citation := e.Record.Citation
		if len(citation) > 40 {
			citation = citation[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4s  %-16s  %-12s  %-5d  %-40s  %s\n",
			e.Record.Jurisdiction, e.Fingerprint, e.Record.TrustLevel,
			e.Record.ConfidenceScore, citation, e.UpdatedAt)
	}
	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	gw, err := openCache()
	if err != nil {
		return err
	}
	defer gw.Close()

	n, err := gw.Clear(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Cleared %d cache entries.\n", n)
	return nil
}
