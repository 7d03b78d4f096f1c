// Package core contains the core domain types for a collaborative debate.
package core

import (
	"time"
)

// Role identifies one of the three fixed conversational stances.
type Role string

const (
	RoleAdvocate Role = "advocate"
	RoleCritic   Role = "critic"
	RoleJudge    Role = "judge"
)

// Roles lists all roles in protocol order.
var Roles = []Role{RoleAdvocate, RoleCritic, RoleJudge}

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdvocate, RoleCritic, RoleJudge:
		return true
	}
	return false
}

// TurnStatus represents the outcome of a single turn.
type TurnStatus string

const (
	TurnOK     TurnStatus = "ok"
	TurnFailed TurnStatus = "failed"
)

// DebateStatus represents the overall status of a debate.
type DebateStatus string

const (
	StatusPending    DebateStatus = "pending"
	StatusInProgress DebateStatus = "in_progress"
	StatusCompleted  DebateStatus = "completed"
	StatusFailed     DebateStatus = "failed"
)

// Turn is one role's single prompt/response exchange with a model.
// Immutable once appended to a Transcript.
type Turn struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Round     int        `json:"round"`
	Prompt    string     `json:"prompt"`
	Output    string     `json:"output"`
	Status    TurnStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Transcript is the ordered, append-only record of all turns in one debate.
// It is owned by the orchestrator while the debate runs; ownership transfers
// to the caller when the debate result is returned.
type Transcript struct {
	Turns []Turn `json:"turns"`
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.Turns = append(t.Turns, turn)
}

// Len returns the number of recorded turns.
func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Turns)
}

// Last returns the most recent turn, or nil for an empty transcript.
func (t *Transcript) Last() *Turn {
	if t.Len() == 0 {
		return nil
	}
	return &t.Turns[len(t.Turns)-1]
}

// LastOutput returns the most recent output produced by the given role,
// or the empty string if that role has not spoken yet.
func (t *Transcript) LastOutput(role Role) string {
	if t == nil {
		return ""
	}
	for i := len(t.Turns) - 1; i >= 0; i-- {
		if t.Turns[i].Role == role {
			return t.Turns[i].Output
		}
	}
	return ""
}

// OutputFor returns the output of the given role in the given round,
// or the empty string if no such turn exists.
func (t *Transcript) OutputFor(role Role, round int) string {
	if t == nil {
		return ""
	}
	for i := range t.Turns {
		if t.Turns[i].Role == role && t.Turns[i].Round == round {
			return t.Turns[i].Output
		}
	}
	return ""
}

// Result is the immutable outcome of one debate invocation.
type Result struct {
	ID          string       `json:"id"`
	Prompt      string       `json:"prompt"`
	FinalAnswer string       `json:"final_answer"`
	Transcript  *Transcript  `json:"transcript"`
	Status      DebateStatus `json:"status"`
	// FailedRole and FailedRound identify the turn whose model call
	// exhausted its retry budget. Empty/zero for completed debates.
	FailedRole  Role       `json:"failed_role,omitempty"`
	FailedRound int        `json:"failed_round,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Rounds returns the number of advocate/critic rounds present in the
// result's transcript.
func (r *Result) Rounds() int {
	max := 0
	if r.Transcript == nil {
		return 0
	}
	for _, turn := range r.Transcript.Turns {
		if turn.Role != RoleJudge && turn.Round > max {
			max = turn.Round
		}
	}
	return max
}
