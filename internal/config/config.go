// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/provider"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/role"
)

// Config represents the application configuration.
type Config struct {
	Defaults  DefaultsConfig            `yaml:"defaults"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Roles     map[string]string         `yaml:"roles,omitempty"`
	Server    ServerConfig              `yaml:"server,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultsConfig holds default debate settings.
type DefaultsConfig struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	Rounds      int      `yaml:"rounds"`
	RetryBudget int      `yaml:"retry_budget"`
	Timeout     Duration `yaml:"timeout"`
	Facts       bool     `yaml:"facts"`
}

// ProviderConfig holds provider-specific settings.
type ProviderConfig struct {
	Command      string   `yaml:"command,omitempty"`
	Args         []string `yaml:"args,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	DefaultModel string   `yaml:"default_model,omitempty"`
	Models       []string `yaml:"models,omitempty"`
	Timeout      Duration `yaml:"timeout,omitempty"`
	Enabled      bool     `yaml:"enabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Provider:    "ollama",
			Model:       "",
			Rounds:      1,
			RetryBudget: 2,
			Timeout:     Duration(2 * time.Minute),
		},
		Server: ServerConfig{
			Port: 8184,
		},
		Providers: map[string]ProviderConfig{
			"ollama": {
				Endpoint:     "http://localhost:11434",
				DefaultModel: "llama3",
				Models:       []string{"llama3", "mistral", "phi3"},
				Timeout:      Duration(5 * time.Minute),
				Enabled:      true,
			},
			"claude": {
				Command: "claude",
				Args:    []string{"--print"},
				Models:  []string{"opus", "sonnet", "haiku"},
				Timeout: Duration(5 * time.Minute),
				Enabled: true,
			},
			"gemini": {
				Command: "gemini",
				Models:  []string{"pro", "flash"},
				Timeout: Duration(5 * time.Minute),
				Enabled: true,
			},
			"mock": {
				Timeout: Duration(1 * time.Minute),
				Enabled: true,
			},
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path, merging defaults for
// any providers the file does not mention.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	defaultCfg := Default()
	for name, defaultProvider := range defaultCfg.Providers {
		if _, exists := cfg.Providers[name]; !exists {
			cfg.Providers[name] = defaultProvider
		}
	}

	// Apply .env overrides if the file exists
	if env, err := LoadEnv(".env"); err == nil {
		ApplyEnvOverrides(cfg, env)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// RoleInstructions converts the configured role overrides into engine
// instructions. Unknown role names are ignored.
func (c *Config) RoleInstructions() role.Instructions {
	inst := role.Instructions{}
	for name, text := range c.Roles {
		r := core.Role(name)
		if r.Valid() {
			inst[r] = text
		}
	}
	return inst
}

// createClientFromName creates a client instance based on the provider name.
func createClientFromName(name string, cfg provider.Config) (provider.Client, error) {
	switch name {
	case "claude":
		return provider.NewClaudeClient(cfg), nil
	case "gemini":
		return provider.NewGeminiClient(cfg), nil
	case "ollama":
		return provider.NewOllamaClient(cfg), nil
	case "mock":
		return provider.NewMockClient(cfg), nil
	default:
		// Unknown providers fall back to the generic command client
		return provider.NewGenericClient(cfg)
	}
}

// toProviderConfig converts a ProviderConfig to provider.Config.
func (p ProviderConfig) toProviderConfig(name, model string) provider.Config {
	return provider.Config{
		Name:         name,
		Command:      p.Command,
		Args:         p.Args,
		Endpoint:     p.Endpoint,
		Model:        model,
		DefaultModel: p.DefaultModel,
		Models:       p.Models,
		Timeout:      p.Timeout.Std(),
	}
}

// CreateClient creates a model client from this configuration. An empty
// model selects the provider's default model.
func (c *Config) CreateClient(name, model string) (provider.Client, error) {
	provCfg, ok := c.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in config", name)
	}
	if !provCfg.Enabled {
		return nil, fmt.Errorf("provider %s is disabled", name)
	}
	return createClientFromName(name, provCfg.toProviderConfig(name, model))
}

// CreateRegistry creates a client registry from this configuration.
func (c *Config) CreateRegistry() (*provider.Registry, error) {
	registry := provider.NewRegistry()

	for name, provCfg := range c.Providers {
		if !provCfg.Enabled {
			continue
		}

		client, err := createClientFromName(name, provCfg.toProviderConfig(name, ""))
		if err != nil {
			return nil, fmt.Errorf("failed to create provider %s: %w", name, err)
		}
		registry.Register(client)
	}

	return registry, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "collab.yaml"
	}
	return filepath.Join(home, ".collab", "config.yaml")
}

// GenerateExample generates an example configuration file.
func GenerateExample() string {
	return `# collab configuration file
# Place this file at ~/.collab/config.yaml

defaults:
  provider: ollama          # Default model provider
  model: ""                 # Default model (empty = provider default)
  rounds: 1                 # Advocate/critic rounds before judging
  retry_budget: 2           # Extra attempts per model call on transient failure
  timeout: 2m               # Per-call timeout
  facts: false              # Prepend Wikipedia facts to advocate/critic prompts

providers:
  ollama:
    endpoint: http://localhost:11434
    default_model: llama3
    models: [llama3, mistral, phi3]
    timeout: 5m
    enabled: true

  claude:
    command: claude
    args: ["--print"]
    models: [opus, sonnet, haiku]
    timeout: 5m
    enabled: true

  gemini:
    command: gemini
    models: [pro, flash]
    timeout: 5m
    enabled: true

# Custom role instructions (optional)
# roles:
#   advocate: |
#     You are the Advocate. Argue for a specific answer with evidence.
#   critic: |
#     You are the Critic. Attack weak reasoning and missing evidence.
#   judge: |
#     You are the Judge. Produce one decisive final answer.

server:
  port: 8184
`
}
