package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaEndpoint = "http://localhost:11434"

// OllamaClient generates text through a local Ollama server's HTTP API.
type OllamaClient struct {
	name       string
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewOllamaClient creates a client backed by an Ollama server.
func NewOllamaClient(cfg Config) *OllamaClient {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}

	model := cfg.Model
	if model == "" {
		model = cfg.DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &OllamaClient{
		name:     "ollama",
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the client identifier.
func (c *OllamaClient) Name() string { return c.name }

// DisplayName returns the human-friendly name.
func (c *OllamaClient) DisplayName() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends a prompt to /api/generate and returns the response text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", classify(c.name, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", classify(c.name, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", classify(c.name, "request timed out", ctx.Err())
		}
		return "", &Error{
			Provider: c.name,
			Kind:     KindTransient,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(c.name, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.statusError(resp.StatusCode, data)
	}

	var out ollamaGenerateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", classify(c.name, "invalid JSON response", err)
	}
	if out.Error != "" {
		return "", classify(c.name, out.Error, nil)
	}

	return strings.TrimSpace(out.Response), nil
}

// statusError maps an HTTP status onto the retry taxonomy.
func (c *OllamaClient) statusError(status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(body)))

	kind := KindUnknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500:
		kind = KindTransient
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		kind = KindInvalidRequest
	}

	return &Error{
		Provider: c.name,
		Kind:     kind,
		Message:  msg,
	}
}

// Available checks if the Ollama server answers on its root endpoint.
func (c *OllamaClient) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
