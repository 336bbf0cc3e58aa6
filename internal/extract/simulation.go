// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/pdiddy/statute-survey/pkg/types"
)

// SimulationProvider produces deterministic fixture records without any
// network calls. It backs demo mode and always reports itself configured;
// place it last in the chain so real providers win when credentials exist.
// Surveys running on simulation output are non-cacheable.
type SimulationProvider struct{}

func NewSimulationProvider() *SimulationProvider { return &SimulationProvider{} }

func (*SimulationProvider) Name() string { return "simulation" }

func (*SimulationProvider) Configured() bool { return true }

// Extract derives a candidate from a hash of (fingerprint, jurisdiction),
// so repeated runs of the same query yield identical surveys.
func (*SimulationProvider) Extract(_ context.Context, req Request) (types.CandidateRecord, error) {
	h := fnv.New64a()
	h.Write([]byte(req.Fingerprint))
	h.Write([]byte(req.Jurisdiction))
	seed := h.Sum64()

	confidence := int(55 + seed%45)
	chapter := 100 + seed%800
	section := 1 + (seed>>16)%99
	year := 1950 + int(seed>>32)%70

	return types.CandidateRecord{
		Jurisdiction: req.Jurisdiction,
		Citation: fmt.Sprintf("%s Rev. Stat. § %d.%02d",
			req.Jurisdiction.Name(), chapter, section),
		TextSnippet: fmt.Sprintf(
			"An action upon a liability described by %q shall be commenced within the period prescribed by chapter %d.",
			req.Query, chapter),
		EffectiveDate:   fmt.Sprintf("%d-01-01", year),
		ConfidenceScore: confidence,
		SourceURL:       fmt.Sprintf("https://statutes.example.gov/%s/%d.%02d", req.Jurisdiction, chapter, section),
	}, nil
}
