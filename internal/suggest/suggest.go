// Package suggest derives follow-up query candidates from the draft text.
package suggest

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limit caps the number of suggestions shown under the input.
const Limit = 3

// minQueryLen is the trimmed length below which no suggestions are offered.
const minQueryLen = 3

var templates = []string{
	"show incidents related to %s",
	"compare %s with other incident types",
	"average resolution time for %s",
}

// Generate maps the current draft text to up to Limit candidate follow-up
// queries. It is a pure function: the set is recomputed from scratch on
// every call and keeps no memory of prior results.
func Generate(text string) []string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) <= minQueryLen {
		return nil
	}

	candidates := make([]string, 0, len(templates))
	for _, tpl := range templates {
		candidates = append(candidates, fmt.Sprintf(tpl, trimmed))
	}

	filtered := filter(trimmed, candidates)
	if len(filtered) > Limit {
		filtered = filtered[:Limit]
	}
	return filtered
}

// filter drops candidates the user has effectively already typed: any
// candidate case-insensitively equal to the query, or wholly contained in
// it. Generation order is preserved and the operation is idempotent.
func filter(query string, candidates []string) []string {
	lowerQuery := strings.ToLower(query)
	out := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		lowerCand := strings.ToLower(cand)
		if lowerCand == lowerQuery || strings.Contains(lowerQuery, lowerCand) {
			continue
		}
		out = append(out, cand)
	}
	return out
}
