package voice

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// CommandRecognizer runs a local transcriber command and reads the
// transcript from its stdout. The command is expected to record from the
// microphone until it finishes or is cancelled, printing the final
// transcript as a single line.
type CommandRecognizer struct {
	command string
	logger  *slog.Logger
}

// NewCommandRecognizer resolves command on PATH. An unresolvable command is
// reported as ErrUnavailable.
func NewCommandRecognizer(command string, logger *slog.Logger) (*CommandRecognizer, error) {
	if command == "" {
		return nil, ErrUnavailable
	}
	if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("transcriber %q not found: %w", command, ErrUnavailable)
	}
	return &CommandRecognizer{command: command, logger: logger}, nil
}

// Name returns the recognizer identifier.
func (r *CommandRecognizer) Name() string {
	return "command:" + r.command
}

// Start spawns the transcriber process and streams its output as events.
func (r *CommandRecognizer) Start(ctx context.Context) (<-chan Event, func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, r.command)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start transcriber: %w", err)
	}

	events := make(chan Event, 4)

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			r.logger.Debug("transcriber stderr", "command", r.command, "line", scanner.Text())
		}
	}()

	go func() {
		defer close(events)

		scanner := bufio.NewScanner(stdout)
		delivered := false
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			events <- Event{Kind: EventTranscript, Transcript: line}
			delivered = true
			break
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			events <- Event{Kind: EventError, Err: fmt.Errorf("failed to read transcript: %w", err)}
		}

		if err := cmd.Wait(); err != nil && !delivered && ctx.Err() == nil {
			events <- Event{Kind: EventError, Err: fmt.Errorf("transcriber exited: %w", err)}
		}

		events <- Event{Kind: EventEnded}
	}()

	return events, cancel, nil
}
