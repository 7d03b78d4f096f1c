package provider

import (
	"context"
	"fmt"
)

// GenericClient runs an arbitrary configured command, passing the prompt as
// the final argument. It lets users wire in any CLI that prints a completion
// to stdout.
type GenericClient struct {
	BaseClient
}

// NewGenericClient creates a client for a user-configured command.
func NewGenericClient(cfg Config) (*GenericClient, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("generic provider %q requires a command", cfg.Name)
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Command
	}
	return &GenericClient{
		BaseClient: NewBaseClient(name, fmt.Sprintf("%s (custom)", cfg.Command), cfg),
	}, nil
}

// Generate sends a prompt and returns the response.
func (c *GenericClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Execute(ctx, prompt)
}
