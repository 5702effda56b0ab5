package dataset

import (
	"fmt"
	"strings"
)

const (
	colPlace     = "place"
	colLat       = "lat"
	colLng       = "lng"
	colSentiment = "sentiment"
	colTokens    = "review_tokens"
)

var requiredColumns = []string{colPlace, colLat, colLng, colSentiment, colTokens}

// columnAliases is the single source of truth for accepted header names.
var columnAliases = map[string][]string{
	colPlace:     {"place", "place_name", "name", "attraction"},
	colLat:       {"lat", "latitude"},
	colLng:       {"lng", "lon", "long", "longitude"},
	colSentiment: {"sentiment", "label", "polarity"},
	colTokens:    {"review_tokens", "tokens", "tokenized_review"},
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// resolveColumns maps every required column to its index in header.
// The first alias present wins.
func resolveColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if _, dup := idx[n]; !dup {
			idx[n] = i
		}
	}

	out := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		found := false
		for _, alias := range columnAliases[col] {
			if i, ok := idx[alias]; ok {
				out[col] = i
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
