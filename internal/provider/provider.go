// Package provider contains model client abstractions and implementations.
package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Client is the capability the debate engine depends on: given a
// role-specific prompt, return generated text or fail. Implementations must
// be safe for concurrent use by independently running debates. The per-call
// timeout is carried by the context.
type Client interface {
	// Name returns the client's identifier.
	Name() string

	// DisplayName returns a human-friendly name.
	DisplayName() string

	// Generate sends a prompt and returns the response.
	Generate(ctx context.Context, prompt string) (string, error)

	// Available checks if the backing model service is reachable or the
	// CLI is installed.
	Available() bool
}

// Config holds the settings for constructing a client.
type Config struct {
	Name         string
	Command      string
	Args         []string
	Endpoint     string
	Model        string
	DefaultModel string
	Models       []string
	Timeout      time.Duration
}

// Registry manages available model clients.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewRegistry creates a new client registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
	}
}

// Register adds a client to the registry.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Name()] = c
}

// Get retrieves a client by name.
func (r *Registry) Get(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return c, nil
}

// List returns all registered clients, sorted by name.
func (r *Registry) List() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name() < clients[j].Name()
	})
	return clients
}

// Available returns all clients that are currently usable.
func (r *Registry) Available() []Client {
	var available []Client
	for _, c := range r.List() {
		if c.Available() {
			available = append(available, c)
		}
	}
	return available
}
