package provider

import (
	"context"
)

// GeminiClient generates text through the gemini CLI.
type GeminiClient struct {
	BaseClient
}

// NewGeminiClient creates a client backed by the gemini CLI.
func NewGeminiClient(cfg Config) *GeminiClient {
	if cfg.Command == "" {
		cfg.Command = "gemini"
	}
	return &GeminiClient{
		BaseClient: NewBaseClient("gemini", "Gemini (Google)", cfg),
	}
}

// Generate sends a prompt and returns the response.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := []string{}
	if c.Model() != "" {
		args = append(args, "--model", c.Model())
	}
	args = append(args, "--prompt", prompt)
	return c.Execute(ctx, args...)
}
