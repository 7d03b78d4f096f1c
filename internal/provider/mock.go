package provider

import (
	"context"
	"fmt"
	"time"
)

// MockClient generates simulated responses for tests and demos.
type MockClient struct {
	BaseClient
	delay time.Duration
}

// NewMockClient creates a new mock client.
func NewMockClient(cfg Config) *MockClient {
	if cfg.Command == "" {
		cfg.Command = "mock"
	}
	if len(cfg.Models) == 0 {
		cfg.Models = []string{"mock-v1"}
	}
	return &MockClient{
		BaseClient: NewBaseClient("mock", "Mock (Simulated)", cfg),
		delay:      50 * time.Millisecond,
	}
}

// Generate returns a simulated response after a short delay.
func (c *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", classify(c.Name(), "cancelled", ctx.Err())
	case <-time.After(c.delay):
	}

	return fmt.Sprintf("Mock response to: %s", truncate(prompt, 60)), nil
}

// Available always returns true for the mock client.
func (c *MockClient) Available() bool { return true }

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
