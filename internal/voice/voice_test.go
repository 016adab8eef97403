package voice

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	events   chan Event
	startErr error
	started  int
	stopped  bool
}

func (f *fakeRecognizer) Name() string { return "fake" }

func (f *fakeRecognizer) Start(ctx context.Context) (<-chan Event, func(), error) {
	if f.startErr != nil {
		return nil, nil, f.startErr
	}
	f.started++
	return f.events, func() { f.stopped = true }, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToggle_NoCapability(t *testing.T) {
	c := NewController(nil, discardLogger())

	events, err := c.Toggle(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Nil(t, events)
	assert.Equal(t, Idle, c.State())
}

func TestToggle_StartThenCancel(t *testing.T) {
	rec := &fakeRecognizer{events: make(chan Event)}
	c := NewController(rec, discardLogger())

	events, err := c.Toggle(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Equal(t, Recording, c.State())

	// Toggling while recording cancels the session.
	events, err = c.Toggle(context.Background())
	require.NoError(t, err)
	assert.Nil(t, events)
	assert.Equal(t, Idle, c.State())
	assert.True(t, rec.stopped)
	assert.Equal(t, 1, rec.started)
}

func TestToggle_StartError(t *testing.T) {
	rec := &fakeRecognizer{startErr: ErrUnavailable}
	c := NewController(rec, discardLogger())

	_, err := c.Toggle(context.Background())

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, Idle, c.State())
}

func TestFinish_ReturnsToIdle(t *testing.T) {
	rec := &fakeRecognizer{events: make(chan Event)}
	c := NewController(rec, discardLogger())

	_, err := c.Toggle(context.Background())
	require.NoError(t, err)

	c.Finish()

	assert.Equal(t, Idle, c.State())
	assert.True(t, rec.stopped)
}

func TestNewCommandRecognizer_MissingCommand(t *testing.T) {
	_, err := NewCommandRecognizer("civicask-no-such-transcriber", discardLogger())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewCommandRecognizer("", discardLogger())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCommandRecognizer_DeliversTranscript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "transcriber.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'which roads are flooded'\n"), 0755))

	rec, err := NewCommandRecognizer(script, discardLogger())
	require.NoError(t, err)

	events, stop, err := rec.Start(context.Background())
	require.NoError(t, err)
	defer stop()

	var got []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				require.NotEmpty(t, got)
				assert.Equal(t, EventTranscript, got[0].Kind)
				assert.Equal(t, "which roads are flooded", got[0].Transcript)
				assert.Equal(t, EventEnded, got[len(got)-1].Kind)
				return
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("timed out waiting for transcriber events")
		}
	}
}

func TestProbe_NothingConfigured(t *testing.T) {
	assert.Nil(t, Probe("", "", discardLogger()))
}

func TestProbe_PrefersGateway(t *testing.T) {
	rec := Probe("ws://localhost:9999/stt", "also-configured", discardLogger())

	require.NotNil(t, rec)
	assert.Contains(t, rec.Name(), "gateway:")
}
