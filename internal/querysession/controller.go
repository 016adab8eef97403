// Package querysession owns the query submission state machine and the
// bounded history list.
package querysession

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"CivicAsk/internal/askclient"
	"CivicAsk/internal/history"

	"go.opentelemetry.io/otel/metric"
)

// ErrEmptyQuery rejects submissions whose trimmed text is empty.
var ErrEmptyQuery = errors.New("query text is empty")

// Status of the current submission.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the submission state machine value. Exactly one of Result and
// ErrorMessage is populated when the status is Resolved or Failed; both are
// cleared when a new submission begins.
type Session struct {
	Status       Status
	Generation   uint64
	Result       *askclient.QueryResponse
	ErrorMessage string
}

// Outcome is the tagged result of one answering-service round trip.
type Outcome struct {
	Generation uint64
	QueryText  string
	Model      string
	Result     *askclient.QueryResponse
	Err        error
}

// Querier is the answering-service port used for submissions.
type Querier interface {
	Query(ctx context.Context, req askclient.QueryRequest) (*askclient.QueryResponse, error)
}

// HistoryStore persists the bounded history list.
type HistoryStore interface {
	Load() []history.Entry
	Save(entries []history.Entry) error
}

// Controller drives QuerySession transitions. Submissions are split into
// Begin (take a generation, go Pending), Run (the blocking round trip, no
// state touched) and Apply (fold the outcome back in), so the round trip
// can run off the event loop while state mutation stays single-threaded.
type Controller struct {
	querier Querier
	store   HistoryStore
	logger  *slog.Logger
	now     func() time.Time

	submissions metric.Int64Counter
	failures    metric.Int64Counter
	staleDrops  metric.Int64Counter

	mu      sync.Mutex
	session Session
	entries []history.Entry
	gen     uint64
}

// NewController loads saved history and starts with an idle session.
func NewController(querier Querier, store HistoryStore, logger *slog.Logger, meter metric.Meter) *Controller {
	c := &Controller{
		querier: querier,
		store:   store,
		logger:  logger,
		now:     time.Now,
		entries: store.Load(),
	}

	var err error
	if c.submissions, err = meter.Int64Counter("query.submissions"); err != nil {
		logger.Warn("failed to create counter", "name", "query.submissions", "error", err)
	}
	if c.failures, err = meter.Int64Counter("query.failures"); err != nil {
		logger.Warn("failed to create counter", "name", "query.failures", "error", err)
	}
	if c.staleDrops, err = meter.Int64Counter("query.stale_responses_dropped"); err != nil {
		logger.Warn("failed to create counter", "name", "query.stale_responses_dropped", "error", err)
	}

	return c
}

// Session returns the current submission state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// History returns a copy of the retained entries, newest first.
func (c *Controller) History() []history.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]history.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Begin validates the draft text and transitions to Pending under a fresh
// generation. Any in-flight submission is implicitly superseded: its
// outcome will no longer be applied.
func (c *Controller) Begin(ctx context.Context, queryText string) (uint64, error) {
	if strings.TrimSpace(queryText) == "" {
		return 0, ErrEmptyQuery
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.session = Session{Status: StatusPending, Generation: c.gen}

	if c.submissions != nil {
		c.submissions.Add(ctx, 1)
	}
	c.logger.Info("submission started", "generation", c.gen)
	return c.gen, nil
}

// Run performs the answering-service round trip for one submission. It
// mutates no controller state; feed the outcome to Apply.
func (c *Controller) Run(ctx context.Context, gen uint64, queryText, model string, numChunks int) Outcome {
	trimmed := strings.TrimSpace(queryText)
	resp, err := c.querier.Query(ctx, askclient.QueryRequest{
		Query:     trimmed,
		NumChunks: numChunks,
		Model:     model,
	})
	return Outcome{
		Generation: gen,
		QueryText:  trimmed,
		Model:      model,
		Result:     resp,
		Err:        err,
	}
}

// Apply folds an outcome into the session. Outcomes from superseded
// generations are dropped: the most recently issued submission wins, no
// matter in which order responses arrive. Returns whether the outcome was
// applied.
func (c *Controller) Apply(ctx context.Context, o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Generation != c.gen {
		if c.staleDrops != nil {
			c.staleDrops.Add(ctx, 1)
		}
		c.logger.Info("dropping stale response", "generation", o.Generation, "current", c.gen)
		return false
	}

	if o.Err != nil {
		c.session = Session{
			Status:       StatusFailed,
			Generation:   o.Generation,
			ErrorMessage: o.Err.Error(),
		}
		if c.failures != nil {
			c.failures.Add(ctx, 1)
		}
		c.logger.Warn("submission failed", "generation", o.Generation, "error", o.Err)
		return true
	}

	c.session = Session{
		Status:     StatusResolved,
		Generation: o.Generation,
		Result:     o.Result,
	}

	entry := history.NewEntry(o.QueryText, o.Model, c.now())
	c.entries = append([]history.Entry{entry}, c.entries...)
	if len(c.entries) > history.Limit {
		c.entries = c.entries[:history.Limit]
	}
	if err := c.store.Save(c.entries); err != nil {
		c.logger.Error("failed to persist history", "error", err)
	}

	c.logger.Info("submission resolved",
		"generation", o.Generation,
		"chunks", o.Result.NumChunksRetrieved)
	return true
}

// Replay returns the entry's draft text and model for the input form. It
// never auto-submits.
func (c *Controller) Replay(e history.Entry) (queryText, model string) {
	return e.QueryText, e.ModelName
}
