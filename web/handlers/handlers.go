// Package handlers provides the JSON HTTP API for running debates.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/config"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/engine"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/research"
)

// Handler holds dependencies for HTTP handlers. Finished debates are kept in
// an in-memory session map; nothing survives a process restart.
type Handler struct {
	cfg  *config.Config
	wiki *research.WikiClient

	mu      sync.RWMutex
	results map[string]*core.Result
}

// New creates a new Handler.
func New(cfg *config.Config) *Handler {
	return &Handler{
		cfg:     cfg,
		wiki:    research.NewWikiClient(),
		results: make(map[string]*core.Result),
	}
}

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Get("/api/providers", h.listProviders)
	r.Post("/api/debates", h.createDebate)
	r.Get("/api/debates/{id}", h.getDebate)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// providerInfo describes one configured provider for the API.
type providerInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Available   bool     `json:"available"`
	Models      []string `json:"models,omitempty"`
}

func (h *Handler) listProviders(w http.ResponseWriter, r *http.Request) {
	registry, err := h.cfg.CreateRegistry()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var infos []providerInfo
	for _, c := range registry.List() {
		info := providerInfo{
			Name:        c.Name(),
			DisplayName: c.DisplayName(),
			Available:   c.Available(),
		}
		if p, ok := h.cfg.Providers[c.Name()]; ok {
			info.Models = p.Models
		}
		infos = append(infos, info)
	}

	writeJSON(w, http.StatusOK, infos)
}

// debateRequest is the POST /api/debates payload.
type debateRequest struct {
	Prompt      string `json:"prompt"`
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	Rounds      int    `json:"rounds,omitempty"`
	RetryBudget *int   `json:"retry_budget,omitempty"`
	TimeoutSecs int    `json:"timeout_seconds,omitempty"`
	Facts       bool   `json:"facts,omitempty"`
}

// debateResponse wraps a result with the failure detail, if any.
type debateResponse struct {
	Result *core.Result `json:"result"`
	Error  string       `json:"error,omitempty"`
}

func (h *Handler) createDebate(w http.ResponseWriter, r *http.Request) {
	var req debateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = h.cfg.Defaults.Provider
	}
	client, err := h.cfg.CreateClient(providerName, req.Model)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engineCfg := engine.Config{
		Rounds:       req.Rounds,
		RetryBudget:  h.cfg.Defaults.RetryBudget,
		Timeout:      h.cfg.Defaults.Timeout.Std(),
		Instructions: h.cfg.RoleInstructions(),
	}
	if engineCfg.Rounds == 0 {
		engineCfg.Rounds = h.cfg.Defaults.Rounds
	}
	if req.RetryBudget != nil {
		engineCfg.RetryBudget = *req.RetryBudget
	}
	if req.TimeoutSecs > 0 {
		engineCfg.Timeout = time.Duration(req.TimeoutSecs) * time.Second
	}

	if req.Facts || h.cfg.Defaults.Facts {
		if fact, err := h.wiki.Lookup(r.Context(), req.Prompt); err == nil {
			engineCfg.Facts = research.FormatFacts(fact)
		} else {
			slog.Debug("Fact lookup failed, continuing without facts", "error", err)
		}
	}

	orch, err := engine.New(client, engineCfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, runErr := orch.Run(r.Context(), req.Prompt, nil)
	if runErr != nil && errors.Is(runErr, engine.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, runErr.Error())
		return
	}

	h.mu.Lock()
	h.results[result.ID] = result
	h.mu.Unlock()

	resp := debateResponse{Result: result}
	status := http.StatusCreated
	if runErr != nil {
		slog.Error("Debate failed", "id", result.ID, "error", runErr)
		resp.Error = runErr.Error()
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func (h *Handler) getDebate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.RLock()
	result, ok := h.results[id]
	h.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "debate not found")
		return
	}
	writeJSON(w, http.StatusOK, debateResponse{Result: result})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
