package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServerURL = "http://localhost:8000"
	DefaultModel     = "mistral"
	DefaultNumChunks = 5
)

// FallbackModels mirrors the answering service's built-in model list. It is
// used whenever GET /models is unreachable.
var FallbackModels = []string{
	"mistral",
	"llama2",
	"llama2:13b",
	"llama2:70b",
	"gemma:2b",
	"gemma:7b",
}

// Config holds application configuration
type Config struct {
	ServerURL string `toml:"server_url"`
	Model     string `toml:"model"`
	NumChunks int    `toml:"num_chunks"`
	HistoryDB string `toml:"history_db"`
	Debug     bool   `toml:"debug"`

	// Voice capture transports, probed in this order at capture time.
	VoiceGatewayURL string `toml:"voice_gateway_url"`
	TranscriberCmd  string `toml:"transcriber_cmd"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL: DefaultServerURL,
		Model:     DefaultModel,
		NumChunks: DefaultNumChunks,
		HistoryDB: "civicask.db",
	}
}

// File returns the default config file location.
func File() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "civicask", "config.toml"), nil
}

// Load builds the configuration from defaults, an optional TOML file and
// environment overrides, in that order. A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if p, err := File(); err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("CIVICASK_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("CIVICASK_MODEL"); v != "" {
		cfg.Model = v
	}

	return cfg, nil
}
