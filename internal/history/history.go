// Package history persists the bounded list of past queries.
package history

import (
	"fmt"
	"time"
)

// Limit is the hard bound on retained history entries, oldest evicted first.
const Limit = 10

// Entry records a past submitted query for quick replay. Immutable once
// created.
type Entry struct {
	ID        string `json:"id"`
	QueryText string `json:"query_text"`
	Timestamp string `json:"timestamp"`
	ModelName string `json:"model_name"`
}

// NewEntry builds an entry for a successfully answered query. The id is
// derived from the wall clock, so creation order is preserved.
func NewEntry(queryText, modelName string, now time.Time) Entry {
	return Entry{
		ID:        fmt.Sprintf("q_%d", now.UnixNano()),
		QueryText: queryText,
		Timestamp: now.Format(time.RFC3339),
		ModelName: modelName,
	}
}
