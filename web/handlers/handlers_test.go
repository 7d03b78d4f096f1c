package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/config"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
)

// testConfig returns a config with only the mock provider enabled so no
// external CLI or server is required.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Defaults.Provider = "mock"
	cfg.Defaults.Timeout = config.Duration(5 * time.Second)
	for name, p := range cfg.Providers {
		p.Enabled = name == "mock"
		cfg.Providers[name] = p
	}
	return cfg
}

func TestHealth(t *testing.T) {
	h := New(testConfig())
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestListProviders(t *testing.T) {
	h := New(testConfig())
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/providers")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var infos []providerInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "mock" {
		t.Errorf("providers = %+v, want only mock", infos)
	}
	if !infos[0].Available {
		t.Error("mock provider should be available")
	}
}

func postDebate(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+"/api/debates", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateDebate(t *testing.T) {
	h := New(testConfig())
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp := postDebate(t, srv, debateRequest{Prompt: "Is AI beneficial?", Provider: "mock"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var out debateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.Result == nil {
		t.Fatal("missing result")
	}
	if out.Result.Status != core.StatusCompleted {
		t.Errorf("status = %s, want completed", out.Result.Status)
	}
	if out.Result.Transcript.Len() != 3 {
		t.Errorf("transcript length = %d, want 3", out.Result.Transcript.Len())
	}
	if out.Result.FinalAnswer == "" {
		t.Error("missing final answer")
	}

	t.Run("GetByID", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/debates/" + out.Result.ID)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}

		var fetched debateResponse
		if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if fetched.Result.ID != out.Result.ID {
			t.Error("fetched a different debate")
		}
	})
}

func TestCreateDebateValidation(t *testing.T) {
	h := New(testConfig())
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	t.Run("EmptyPrompt", func(t *testing.T) {
		resp := postDebate(t, srv, debateRequest{Prompt: "", Provider: "mock"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		resp := postDebate(t, srv, debateRequest{Prompt: "x", Provider: "nonexistent"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/debates", "application/json", bytes.NewReader([]byte("{")))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestGetDebateNotFound(t *testing.T) {
	h := New(testConfig())
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/debates/unknown")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
