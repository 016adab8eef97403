package askclient

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query     string `json:"query"`
	NumChunks int    `json:"num_chunks"`
	Model     string `json:"model"`
}

// ChunkMetadata identifies where a retrieved excerpt came from.
type ChunkMetadata struct {
	Source string `json:"source"`
}

// SourceChunk is a retrieved excerpt of incident data cited as evidence.
type SourceChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// QueryResponse is the answer produced for one query. It is replaced
// wholesale on the next successful query, never mutated in place.
type QueryResponse struct {
	Query              string        `json:"query"`
	Answer             string        `json:"answer"`
	RelevantChunks     []SourceChunk `json:"relevant_chunks"`
	NumChunksRetrieved int           `json:"num_chunks_retrieved"`
	ProcessingTimeMS   float64       `json:"processing_time_ms"`
}

// ModelsResponse is the body of GET /models.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	TotalIncidents int            `json:"total_incidents"`
	IncidentTypes  map[string]int `json:"incident_types"`
	Statuses       map[string]int `json:"statuses"`
	Locations      map[string]int `json:"locations"`
}
