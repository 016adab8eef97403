package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"CivicAsk/internal/askclient"
	"CivicAsk/internal/config"
	"CivicAsk/internal/history"
	"CivicAsk/internal/querysession"
	"CivicAsk/internal/telemetry"
	"CivicAsk/internal/ui"
	"CivicAsk/internal/voice"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	var (
		cfgPath        string
		serverURL      string
		model          string
		numChunks      int
		historyDB      string
		gatewayURL     string
		transcriberCmd string
		debug          bool
	)

	defaults := config.Default()
	flag.StringVar(&cfgPath, "config", "", "Path to TOML config file")
	flag.StringVar(&serverURL, "server", defaults.ServerURL, "Answering service base URL")
	flag.StringVar(&model, "model", defaults.Model, "Model name to query with")
	flag.IntVar(&numChunks, "num-chunks", defaults.NumChunks, "Number of source chunks to retrieve")
	flag.StringVar(&historyDB, "history-db", defaults.HistoryDB, "Path to the local history database")
	flag.StringVar(&gatewayURL, "voice-gateway", "", "WebSocket URL of a speech-to-text gateway")
	flag.StringVar(&transcriberCmd, "transcriber", "", "Local transcriber command for voice capture")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags override the config file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.ServerURL = serverURL
		case "model":
			cfg.Model = model
		case "num-chunks":
			cfg.NumChunks = numChunks
		case "history-db":
			cfg.HistoryDB = historyDB
		case "voice-gateway":
			cfg.VoiceGatewayURL = gatewayURL
		case "transcriber":
			cfg.TranscriberCmd = transcriberCmd
		case "debug":
			cfg.Debug = debug
		}
	})

	logger, err := telemetry.InitLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	tracer, meter, cleanup, err := telemetry.InitTelemetry(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	store, err := history.Open(cfg.HistoryDB, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := askclient.New(cfg.ServerURL, logger, tracer, meter)
	controller := querysession.NewController(client, store, logger, meter)
	recognizer := voice.Probe(cfg.VoiceGatewayURL, cfg.TranscriberCmd, logger)
	captures := voice.NewController(recognizer, logger)

	m := ui.NewModel(cfg, controller, client, captures, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
