package askclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func newTestClient(url string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(url, logger, otel.Tracer("test"), otel.Meter("test"))
}

func TestQuery_SendsExactBody(t *testing.T) {
	var gotBody QueryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(QueryResponse{
			Query:              gotBody.Query,
			Answer:             "Kankanady, 42 incidents",
			NumChunksRetrieved: 5,
			ProcessingTimeMS:   1200,
			RelevantChunks: []SourceChunk{
				{Text: "42 incidents reported in Kankanady", Metadata: ChunkMetadata{Source: "incident_report_2024"}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Query(context.Background(), QueryRequest{
		Query:     "Which areas have the most incidents?",
		NumChunks: 5,
		Model:     "mistral",
	})

	require.NoError(t, err)
	assert.Equal(t, QueryRequest{
		Query:     "Which areas have the most incidents?",
		NumChunks: 5,
		Model:     "mistral",
	}, gotBody)
	assert.Equal(t, "Kankanady, 42 incidents", resp.Answer)
	assert.Equal(t, 5, resp.NumChunksRetrieved)
	assert.Equal(t, float64(1200), resp.ProcessingTimeMS)
	require.Len(t, resp.RelevantChunks, 1)
	assert.Equal(t, "incident_report_2024", resp.RelevantChunks[0].Metadata.Source)
}

func TestQuery_ServerErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Error processing query"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Query(context.Background(), QueryRequest{Query: "q", NumChunks: 5, Model: "mistral"})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "500")
}

func TestQuery_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	_, err := client.Query(context.Background(), QueryRequest{Query: "q", NumChunks: 5, Model: "mistral"})

	assert.Error(t, err)
}

func TestModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		json.NewEncoder(w).Encode(ModelsResponse{Models: []string{"mistral", "llama2"}})
	}))
	defer server.Close()

	models, err := newTestClient(server.URL).Models(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"mistral", "llama2"}, models)
}

func TestStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats", r.URL.Path)
		json.NewEncoder(w).Encode(StatsResponse{
			TotalIncidents: 1200,
			IncidentTypes:  map[string]int{"pothole": 300, "flooding": 120},
			Statuses:       map[string]int{"open": 400, "closed": 800},
			Locations:      map[string]int{"Kankanady": 42},
		})
	}))
	defer server.Close()

	stats, err := newTestClient(server.URL).Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1200, stats.TotalIncidents)
	assert.Equal(t, 300, stats.IncidentTypes["pothole"])
	assert.Equal(t, 800, stats.Statuses["closed"])
	assert.Equal(t, 42, stats.Locations["Kankanady"])
}

func TestStats_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	stats, err := newTestClient(server.URL).Stats(context.Background())

	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Contains(t, err.Error(), "503")
}
