// Package engine orchestrates a fixed-role debate between three model roles.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/provider"
	"github.com/UserofUser-s/ai-collaborative-answer/internal/role"
)

// Defaults for debate configuration.
const (
	DefaultRounds      = 1
	DefaultRetryBudget = 2
	DefaultTimeout     = 2 * time.Minute
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Sentinel errors surfaced to callers.
var (
	// ErrInvalidInput marks bad caller arguments. No model calls are made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyRun marks reuse of a single-use orchestrator.
	ErrAlreadyRun = errors.New("orchestrator has already run a debate")
)

// Config holds the settings for one debate. It is supplied at construction
// and never mutated while the debate runs.
type Config struct {
	// Rounds is the number of advocate/critic exchanges before judging.
	// Zero means DefaultRounds.
	Rounds int
	// RetryBudget is the number of extra attempts allowed per model call
	// on transient failure.
	RetryBudget int
	// Timeout bounds each individual model call. Zero means DefaultTimeout.
	Timeout time.Duration
	// RetryDelay is the backoff before the first retry; it doubles on each
	// subsequent retry. Zero means DefaultRetryDelay.
	RetryDelay time.Duration
	// Instructions overrides role instructions. Missing roles use defaults.
	Instructions role.Instructions
	// Facts is an optional background-facts block included in advocate and
	// critic prompts.
	Facts string
}

// withDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Rounds == 0 {
		c.Rounds = DefaultRounds
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	c.Instructions = c.Instructions.WithDefaults()
	return c
}

// validate rejects configurations the debate contract cannot honor.
func (c Config) validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds must be >= 1, got %d", ErrInvalidInput, c.Rounds)
	}
	if c.RetryBudget < 0 {
		return fmt.Errorf("%w: retry budget must be >= 0, got %d", ErrInvalidInput, c.RetryBudget)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be > 0, got %s", ErrInvalidInput, c.Timeout)
	}
	return nil
}

// DebateError reports the turn whose model call ended the debate.
type DebateError struct {
	Role     core.Role
	Round    int
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *DebateError) Error() string {
	return fmt.Sprintf("debate failed: %s turn in round %d after %d attempt(s): %v",
		e.Role, e.Round, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *DebateError) Unwrap() error {
	return e.Err
}

// TurnCallback is called after each turn completes.
type TurnCallback func(turn core.Turn)

// state tracks the orchestrator through the debate protocol.
type state int

const (
	stateIdle state = iota
	stateRound
	stateJudging
	stateCompleted
	stateFailed
)

// Orchestrator drives one debate: advocate and critic alternate for the
// configured number of rounds, strictly sequentially, then the judge
// synthesizes the final answer from the full transcript. An Orchestrator is
// single-use; a second Run returns ErrAlreadyRun.
type Orchestrator struct {
	client  provider.Client
	cfg     Config
	state   state
	started atomic.Bool
}

// New creates an orchestrator for a single debate.
func New(client provider.Client, cfg Config) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: model client is required", ErrInvalidInput)
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		client: client,
		cfg:    cfg,
		state:  stateIdle,
	}, nil
}

// Run executes the debate for the given user prompt. On success the result
// holds the judge's final answer and a transcript of exactly 2*Rounds+1
// turns. On failure the result carries the partial transcript collected
// before the failing turn, together with the failing role and round, and the
// returned error is a *DebateError (or ErrInvalidInput before any model
// call). The callback, if non-nil, observes each completed turn.
func (o *Orchestrator) Run(ctx context.Context, userPrompt string, callback TurnCallback) (*core.Result, error) {
	if !o.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	if strings.TrimSpace(userPrompt) == "" {
		o.state = stateFailed
		return nil, fmt.Errorf("%w: prompt must not be empty", ErrInvalidInput)
	}

	result := &core.Result{
		ID:         core.GenerateID(),
		Prompt:     userPrompt,
		Transcript: &core.Transcript{},
		Status:     core.StatusInProgress,
		CreatedAt:  time.Now(),
	}

	slog.Debug("Starting debate", "id", result.ID, "rounds", o.cfg.Rounds)

	o.state = stateRound
	for round := 1; round <= o.cfg.Rounds; round++ {
		for _, r := range []core.Role{core.RoleAdvocate, core.RoleCritic} {
			if err := o.runTurn(ctx, result, r, round, userPrompt, callback); err != nil {
				return result, err
			}
		}
	}

	o.state = stateJudging
	if err := o.runTurn(ctx, result, core.RoleJudge, o.cfg.Rounds, userPrompt, callback); err != nil {
		return result, err
	}

	last := result.Transcript.Last()
	result.FinalAnswer = last.Output
	result.Status = core.StatusCompleted
	now := time.Now()
	result.CompletedAt = &now
	o.state = stateCompleted

	slog.Debug("Debate completed", "id", result.ID, "turns", result.Transcript.Len())
	return result, nil
}

// runTurn builds the role prompt, invokes the model with the retry policy
// and appends the successful turn. A failed turn is not appended; the
// failure is recorded on the result and returned as a *DebateError.
func (o *Orchestrator) runTurn(ctx context.Context, result *core.Result, r core.Role, round int, userPrompt string, callback TurnCallback) error {
	// Caller cancellation is observed between turns at the latest.
	if err := ctx.Err(); err != nil {
		return o.fail(result, r, round, 0, err)
	}

	prompt, err := role.BuildPrompt(r, userPrompt, round, result.Transcript, o.cfg.Instructions, o.cfg.Facts)
	if err != nil {
		return o.fail(result, r, round, 0, err)
	}

	slog.Debug("Executing turn", "debate_id", result.ID, "role", r, "round", round)

	output, attempts, err := o.invoke(ctx, prompt)
	if err != nil {
		slog.Error("Turn failed", "debate_id", result.ID, "role", r, "round", round, "attempts", attempts, "error", err)
		return o.fail(result, r, round, attempts, err)
	}

	turn := core.Turn{
		ID:        core.GenerateID(),
		Role:      r,
		Round:     round,
		Prompt:    prompt,
		Output:    output,
		Status:    core.TurnOK,
		CreatedAt: time.Now(),
	}
	result.Transcript.Append(turn)

	if callback != nil {
		callback(turn)
	}
	return nil
}

// fail moves the orchestrator to its terminal failed state.
func (o *Orchestrator) fail(result *core.Result, r core.Role, round, attempts int, err error) error {
	o.state = stateFailed
	result.Status = core.StatusFailed
	result.FailedRole = r
	result.FailedRound = round
	now := time.Now()
	result.CompletedAt = &now
	return &DebateError{Role: r, Round: round, Attempts: attempts, Err: err}
}

// invoke calls the model with the same prompt for up to RetryBudget+1
// attempts. Only transient failures are retried, with a doubling backoff
// between attempts. A per-attempt timeout aborts only that attempt and
// counts against the budget.
func (o *Orchestrator) invoke(ctx context.Context, prompt string) (string, int, error) {
	delay := o.cfg.RetryDelay
	attempts := 0
	var lastErr error

	for attempt := 0; attempt <= o.cfg.RetryBudget; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying model call", "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return "", attempts, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		attempts++
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
		output, err := o.client.Generate(callCtx, prompt)
		cancel()

		if err == nil {
			return output, attempts, nil
		}
		lastErr = err

		// A cancelled debate must not be retried even when the failure
		// looks transient.
		if ctx.Err() != nil {
			return "", attempts, ctx.Err()
		}
		if !provider.IsTransient(err) {
			return "", attempts, err
		}
	}

	return "", attempts, lastErr
}
