package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_ShortInputYieldsNothing(t *testing.T) {
	for _, text := range []string{"", "a", "ab", "abc", "  ab  ", "   ", "\tabc\n"} {
		assert.Empty(t, Generate(text), "input %q", text)
	}
}

func TestGenerate_CapsAtLimitAndPreservesOrder(t *testing.T) {
	got := Generate("flooding in Kankanady")

	assert.LessOrEqual(t, len(got), Limit)
	assert.Equal(t, []string{
		"show incidents related to flooding in Kankanady",
		"compare flooding in Kankanady with other incident types",
		"average resolution time for flooding in Kankanady",
	}, got)
}

func TestGenerate_UsesTrimmedDraft(t *testing.T) {
	got := Generate("  potholes  ")

	for _, s := range got {
		assert.Contains(t, s, "potholes")
		assert.NotContains(t, s, "  potholes")
	}
}

func TestGenerate_NeverEchoesQuery(t *testing.T) {
	query := "Which areas have the most incidents?"
	for _, s := range Generate(query) {
		assert.NotEqual(t, strings.ToLower(query), strings.ToLower(s))
	}
}

func TestFilter_DropsCandidatesAlreadyTyped(t *testing.T) {
	query := "show incidents related to roads"
	candidates := []string{
		"Show Incidents Related To Roads",  // equal, case-insensitively
		"show incidents related to",        // already contained in the query
		"compare roads with other incident types", // kept
	}

	got := filter(query, candidates)

	assert.Equal(t, []string{"compare roads with other incident types"}, got)
}

func TestFilter_Idempotent(t *testing.T) {
	query := "garbage collection delays"
	candidates := []string{
		"garbage collection delays",
		"show incidents related to garbage collection delays",
		"average resolution time for garbage collection delays",
	}

	once := filter(query, candidates)
	twice := filter(query, once)

	assert.Equal(t, once, twice)
}
