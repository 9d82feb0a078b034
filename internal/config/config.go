// Package config handles workspace agent configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all configuration.
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Services
	Gemini GeminiConfig `json:"gemini"`
	Google GoogleConfig `json:"google"`

	// Agent behavior
	Agent AgentConfig `json:"agent"`
}

// ServerConfig for the HTTP server.
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// GeminiConfig for the enrichment LLM.
type GeminiConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// GoogleConfig for the workspace connectors.
type GoogleConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenFile    string `json:"token_file"`
}

// AgentConfig tunes the observation cycle and chat behavior.
type AgentConfig struct {
	EODHour          int `json:"eod_hour"`   // daily report hour, local time
	EODMinute        int `json:"eod_minute"` // daily report minute
	MaxEmails        int `json:"max_emails"`
	AssignmentWindow int `json:"assignment_window_days"`
	HistoryLimit     int `json:"history_limit"` // turns fed to the chat engine
}

// Default returns default configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".workspace-agent")

	return &Config{
		DataDir: dataDir,
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  "gemini-2.5-flash",
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			TokenFile:    filepath.Join(dataDir, "token.json"),
		},
		Agent: AgentConfig{
			EODHour:          18,
			EODMinute:        0,
			MaxEmails:        10,
			AssignmentWindow: 7,
			HistoryLimit:     5,
		},
	}
}

// DatabasePath returns the sqlite file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "workspace_agent.db")
}

// Load loads config from file, falling back to defaults. A .env file in
// the working directory is applied first so env overrides pick it up.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Env wins over file for secrets.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.Google.ClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.Google.ClientSecret = secret
	}

	return cfg, nil
}

// Save saves config to file, omitting secrets.
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	safe := *c
	safe.Gemini.APIKey = ""
	safe.Google.ClientSecret = ""

	data, err := json.MarshalIndent(safe, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
