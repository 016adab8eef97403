package voice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// gatewayFrame is one JSON message from a speech-to-text gateway.
type gatewayFrame struct {
	Type    string `json:"type"` // "transcript", "error" or "end"
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// GatewayRecognizer streams capture events from a local speech-to-text
// service over a WebSocket. The connection is dialed per session, so the
// capability is probed at call time rather than at startup.
type GatewayRecognizer struct {
	url    string
	logger *slog.Logger
}

// NewGatewayRecognizer creates a recognizer for the gateway at url.
func NewGatewayRecognizer(url string, logger *slog.Logger) *GatewayRecognizer {
	return &GatewayRecognizer{url: url, logger: logger}
}

// Name returns the recognizer identifier.
func (r *GatewayRecognizer) Name() string {
	return "gateway:" + r.url
}

// Start dials the gateway and begins a capture session. A failed dial is
// reported as ErrUnavailable.
func (r *GatewayRecognizer) Start(ctx context.Context) (<-chan Event, func(), error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to speech gateway: %w", ErrUnavailable)
	}

	if err := conn.WriteJSON(gatewayFrame{Type: "start"}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to start capture: %w", err)
	}

	events := make(chan Event, 4)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		})
	}

	go func() {
		defer close(events)
		defer stop()

		for {
			var frame gatewayFrame
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure) || ctx.Err() != nil {
					events <- Event{Kind: EventEnded}
					return
				}
				events <- Event{Kind: EventError, Err: fmt.Errorf("failed to read gateway frame: %w", err)}
				events <- Event{Kind: EventEnded}
				return
			}

			switch frame.Type {
			case "transcript":
				events <- Event{Kind: EventTranscript, Transcript: frame.Text}
			case "error":
				events <- Event{Kind: EventError, Err: fmt.Errorf("gateway error: %s", frame.Message)}
			case "end":
				events <- Event{Kind: EventEnded}
				return
			default:
				r.logger.Debug("ignoring unknown gateway frame", "type", frame.Type)
			}
		}
	}()

	return events, stop, nil
}

// Probe picks the first available recognizer: the WebSocket gateway when a
// URL is configured, else the transcriber command when it resolves on PATH.
// Returns nil when neither is available.
func Probe(gatewayURL, transcriberCmd string, logger *slog.Logger) Recognizer {
	if gatewayURL != "" {
		return NewGatewayRecognizer(gatewayURL, logger)
	}
	if transcriberCmd != "" {
		rec, err := NewCommandRecognizer(transcriberCmd, logger)
		if err != nil {
			logger.Warn("transcriber command unavailable", "command", transcriberCmd, "error", err)
			return nil
		}
		return rec
	}
	return nil
}
