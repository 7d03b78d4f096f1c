package provider

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// BaseClient provides common functionality for CLI-backed model clients.
type BaseClient struct {
	name         string
	displayName  string
	command      string
	args         []string
	model        string
	defaultModel string
	models       []string
	timeout      time.Duration
}

// NewBaseClient creates a new base client from config.
func NewBaseClient(name, displayName string, cfg Config) BaseClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	model := cfg.Model
	if model == "" {
		model = cfg.DefaultModel
	}

	return BaseClient{
		name:         name,
		displayName:  displayName,
		command:      cfg.Command,
		args:         cfg.Args,
		model:        model,
		defaultModel: cfg.DefaultModel,
		models:       cfg.Models,
		timeout:      timeout,
	}
}

// Name returns the client identifier.
func (c *BaseClient) Name() string { return c.name }

// DisplayName returns the human-friendly name.
func (c *BaseClient) DisplayName() string { return c.displayName }

// Model returns the model selected at construction.
func (c *BaseClient) Model() string { return c.model }

// Models returns the known model names.
func (c *BaseClient) Models() []string { return c.models }

// Timeout returns the configured hard timeout for one CLI invocation.
func (c *BaseClient) Timeout() time.Duration { return c.timeout }

// Available checks if the CLI is installed.
func (c *BaseClient) Available() bool {
	_, err := exec.LookPath(c.command)
	return err == nil
}

// Execute runs the CLI command with the given arguments and returns its
// trimmed stdout. Failures are classified onto the retry taxonomy.
func (c *BaseClient) Execute(ctx context.Context, extraArgs ...string) (string, error) {
	// The caller's context carries the per-call deadline; the configured
	// timeout is a hard upper bound.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allArgs := append(append([]string{}, c.args...), extraArgs...)
	cmd := exec.CommandContext(ctx, c.command, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", classify(c.name, "command timed out", ctx.Err())
		}
		if stderr.Len() > 0 {
			return "", classify(c.name, stderr.String(), err)
		}
		return "", classify(c.name, "command failed", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
