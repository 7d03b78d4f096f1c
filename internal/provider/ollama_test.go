package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOllama(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllamaClient(Config{Endpoint: srv.URL, Model: "llama3"})
}

func TestOllamaGenerate(t *testing.T) {
	c := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s, want /api/generate", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(`{"response": "  a fine answer \n"}`))
	})

	out, err := c.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "a fine answer" {
		t.Errorf("output = %q, want trimmed response", out)
	}
}

func TestOllamaStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{"RateLimited", http.StatusTooManyRequests, KindTransient},
		{"ServerError", http.StatusInternalServerError, KindTransient},
		{"Unauthorized", http.StatusUnauthorized, KindAuth},
		{"BadRequest", http.StatusBadRequest, KindInvalidRequest},
		{"Teapot", http.StatusTeapot, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.Generate(context.Background(), "question")
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if pe.Kind != tt.want {
				t.Errorf("kind = %s, want %s", pe.Kind, tt.want)
			}
		})
	}
}

func TestOllamaErrorBody(t *testing.T) {
	c := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "model not found"}`))
	})

	_, err := c.Generate(context.Background(), "question")
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if pe.Kind != KindInvalidRequest {
		t.Errorf("kind = %s, want invalid_request", pe.Kind)
	}
}

func TestOllamaConnectionRefusedIsTransient(t *testing.T) {
	c := NewOllamaClient(Config{Endpoint: "http://127.0.0.1:1", Model: "llama3"})
	_, err := c.Generate(context.Background(), "question")
	if !IsTransient(err) {
		t.Errorf("connection failure should be transient, got %v", err)
	}
}

func TestOllamaAvailable(t *testing.T) {
	c := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	})
	if !c.Available() {
		t.Error("expected server to be reported available")
	}

	down := NewOllamaClient(Config{Endpoint: "http://127.0.0.1:1"})
	if down.Available() {
		t.Error("expected unreachable server to be unavailable")
	}
}
