// Package llm provides the Gemini client used as the enrichment signal.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/workspace-agent/workspace-agent/internal/core"
)

// Client handles Gemini API calls.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Config for the LLM client.
type Config struct {
	APIKey  string // Gemini API key
	BaseURL string // API base URL
	Model   string // model to use
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "gemini-2.5-flash",
		Timeout: 60 * time.Second,
	}
}

// NewClient creates a new LLM client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Part is one piece of generated or prompt content.
type Part struct {
	Text string `json:"text"`
}

// Content is a role-tagged sequence of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Request is the generateContent request structure.
type Request struct {
	Contents []Content `json:"contents"`
}

// Response is the generateContent response structure.
type Response struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// Generate sends a prompt and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini: %w", core.ErrNotConfigured)
	}

	req := Request{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var llmResp Response
	if err := json.Unmarshal(respBody, &llmResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(llmResp.Candidates) == 0 || len(llmResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return llmResp.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateJSON requests a JSON response and decodes it into out.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	text, err := c.Generate(ctx, prompt+"\n\nIMPORTANT: Respond ONLY with valid JSON, no markdown formatting.")
	if err != nil {
		return err
	}

	// Strip markdown fences if the model added them anyway.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

// Enrich adapts the client to the chat engine's enrichment contract:
// an unconfigured client reports ok=false instead of an error so the
// engine falls through to its deterministic fallback.
func (c *Client) Enrich(ctx context.Context, prompt string) (string, bool, error) {
	if !c.IsConfigured() {
		return "", false, nil
	}
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// IsConfigured checks if an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}
