// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/statute-survey/pkg/types"
)

// maxSourceChars bounds how much raw source content is sent to a provider.
const maxSourceChars = 24000

// buildPrompt renders the extraction instruction for one jurisdiction.
// The response contract is a single JSON object; the same prompt is used
// by every remote provider so their outputs stay comparable.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a legal research assistant. Identify the %s statute most relevant to this query:\n\n", req.Jurisdiction.Name())
	fmt.Fprintf(&b, "Query: %s\n\n", req.Query)

	if req.Source != nil && len(req.Source.Body) > 0 {
		body := string(req.Source.Body)
		if len(body) > maxSourceChars {
			body = body[:maxSourceChars]
		}
		fmt.Fprintf(&b, "Source material from %s:\n---\n%s\n---\n\n", req.Source.URL, body)
	}

	b.WriteString(`Respond with exactly one JSON object, no surrounding text:
{
  "citation": "<official statute citation, or "none found">",
  "text_snippet": "<short excerpt of the statutory text>",
  "effective_date": "<YYYY-MM-DD, or "unknown">",
  "confidence_score": <integer 0-100>,
  "source_url": "<canonical reference link, may be empty>"
}
Only cite statutes you are certain exist. If unsure, use "none found" and a low confidence score.`)

	return b.String()
}

// parseCandidate decodes a provider's JSON reply. Providers sometimes wrap
// the object in Markdown fences; those are stripped before decoding.
func parseCandidate(raw string) (types.CandidateRecord, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var candidate types.CandidateRecord
	if err := json.Unmarshal([]byte(cleaned), &candidate); err != nil {
		return types.CandidateRecord{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return candidate, nil
}
