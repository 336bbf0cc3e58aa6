// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// JurisdictionCode identifies one of the 50 US state research targets.
// The two-letter USPS code is used everywhere: cache keys, session result
// maps, API payloads.
type JurisdictionCode string

// The 50 jurisdictions, in alphabetical order by code.
var AllJurisdictions = []JurisdictionCode{
	"AK", "AL", "AR", "AZ", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "IA", "ID", "IL", "IN", "KS", "KY", "LA", "MA", "MD",
	"ME", "MI", "MN", "MO", "MS", "MT", "NC", "ND", "NE", "NH",
	"NJ", "NM", "NV", "NY", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VA", "VT", "WA", "WI", "WV", "WY",
}

// jurisdictionNames maps codes to display names.
var jurisdictionNames = map[JurisdictionCode]string{
	"AK": "Alaska", "AL": "Alabama", "AR": "Arkansas", "AZ": "Arizona",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut",
	"DE": "Delaware", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"IA": "Iowa", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"MA": "Massachusetts", "MD": "Maryland", "ME": "Maine",
	"MI": "Michigan", "MN": "Minnesota", "MO": "Missouri",
	"MS": "Mississippi", "MT": "Montana", "NC": "North Carolina",
	"ND": "North Dakota", "NE": "Nebraska", "NH": "New Hampshire",
	"NJ": "New Jersey", "NM": "New Mexico", "NV": "Nevada",
	"NY": "New York", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VA": "Virginia", "VT": "Vermont", "WA": "Washington",
	"WI": "Wisconsin", "WV": "West Virginia", "WY": "Wyoming",
}

// Valid reports whether c is one of the 50 recognized codes.
func (c JurisdictionCode) Valid() bool {
	_, ok := jurisdictionNames[c]
	return ok
}

// Name returns the display name for the jurisdiction, or the code itself
// if it is not recognized.
func (c JurisdictionCode) Name() string {
	if name, ok := jurisdictionNames[c]; ok {
		return name
	}
	return string(c)
}

// ParseJurisdictions converts a list of raw code strings into validated
// JurisdictionCodes. Codes are upper-cased and deduplicated, preserving
// first-seen order. An empty input selects all 50 jurisdictions.
func ParseJurisdictions(raw []string) ([]JurisdictionCode, error) {
	if len(raw) == 0 {
		out := make([]JurisdictionCode, len(AllJurisdictions))
		copy(out, AllJurisdictions)
		return out, nil
	}

	seen := make(map[JurisdictionCode]bool, len(raw))
	var out []JurisdictionCode
	for _, r := range raw {
		code := JurisdictionCode(strings.ToUpper(strings.TrimSpace(r)))
		if code == "" {
			continue
		}
		if !code.Valid() {
			return nil, fmt.Errorf("unknown jurisdiction code %q", r)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid jurisdiction codes in %v", raw)
	}
	return out, nil
}
