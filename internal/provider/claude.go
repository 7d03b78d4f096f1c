package provider

import (
	"context"
)

// ClaudeClient generates text through the claude CLI.
type ClaudeClient struct {
	BaseClient
}

// NewClaudeClient creates a client backed by the claude CLI.
func NewClaudeClient(cfg Config) *ClaudeClient {
	if cfg.Command == "" {
		cfg.Command = "claude"
	}
	if len(cfg.Args) == 0 {
		cfg.Args = []string{"--print"}
	}
	return &ClaudeClient{
		BaseClient: NewBaseClient("claude", "Claude (Anthropic)", cfg),
	}
}

// Generate sends a prompt and returns the response.
func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := []string{}
	if c.Model() != "" {
		args = append(args, "--model", c.Model())
	}
	args = append(args, prompt)
	return c.Execute(ctx, args...)
}
