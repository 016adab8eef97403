// Package voice wraps an optional speech-to-text capability into a
// start/stop capture session that yields a transcript or an error.
package voice

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUnavailable reports that no speech-recognition capability is present.
// It is a recoverable condition, not a startup failure.
var ErrUnavailable = errors.New("speech recognition is not available")

// EventKind discriminates capture session events.
type EventKind int

const (
	EventTranscript EventKind = iota
	EventError
	EventEnded
)

// Event is one notification from an active capture session.
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
}

// Recognizer is a platform speech-to-text capability. Start opens a capture
// session; the returned channel delivers events until an EventEnded, after
// which it is closed. The stop function cancels the session.
type Recognizer interface {
	Name() string
	Start(ctx context.Context) (<-chan Event, func(), error)
}

// State of the capture controller.
type State int

const (
	Idle State = iota
	Recording
)

// Controller is the capture state machine. Only one session may be active;
// Toggle behaves as start from Idle and cancel from Recording.
type Controller struct {
	rec    Recognizer
	logger *slog.Logger
	state  State
	stop   func()
}

// NewController wraps rec, which may be nil when no capability was found.
func NewController(rec Recognizer, logger *slog.Logger) *Controller {
	return &Controller{rec: rec, logger: logger}
}

// State reports the current capture state.
func (c *Controller) State() State {
	return c.state
}

// Toggle starts a capture session from Idle, or cancels the active one from
// Recording. The returned channel is non-nil only when a session started.
func (c *Controller) Toggle(ctx context.Context) (<-chan Event, error) {
	if c.state == Recording {
		if c.stop != nil {
			c.stop()
		}
		c.state = Idle
		c.stop = nil
		c.logger.Info("voice capture cancelled")
		return nil, nil
	}

	if c.rec == nil {
		return nil, ErrUnavailable
	}

	events, stop, err := c.rec.Start(ctx)
	if err != nil {
		c.logger.Warn("voice capture failed to start", "recognizer", c.rec.Name(), "error", err)
		return nil, err
	}

	c.state = Recording
	c.stop = stop
	c.logger.Info("voice capture started", "recognizer", c.rec.Name())
	return events, nil
}

// Finish returns the controller to Idle after the session delivered its
// terminal event.
func (c *Controller) Finish() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.state = Idle
}
