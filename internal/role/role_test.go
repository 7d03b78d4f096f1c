package role

import (
	"strings"
	"testing"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
)

func transcriptWith(turns ...core.Turn) *core.Transcript {
	t := &core.Transcript{}
	for _, turn := range turns {
		t.Append(turn)
	}
	return t
}

func TestBuildPromptIsPure(t *testing.T) {
	tr := transcriptWith(
		core.Turn{Role: core.RoleAdvocate, Round: 1, Output: "AI helps people", Status: core.TurnOK},
		core.Turn{Role: core.RoleCritic, Round: 1, Output: "That claim lacks evidence", Status: core.TurnOK},
	)

	for _, r := range core.Roles {
		t.Run(string(r), func(t *testing.T) {
			first, err := BuildPrompt(r, "Is AI beneficial?", 2, tr, nil, "")
			if err != nil {
				t.Fatalf("BuildPrompt failed: %v", err)
			}
			second, err := BuildPrompt(r, "Is AI beneficial?", 2, tr, nil, "")
			if err != nil {
				t.Fatalf("BuildPrompt failed: %v", err)
			}
			if first != second {
				t.Error("identical inputs produced different prompts")
			}
		})
	}
}

func TestBuildPromptAdvocate(t *testing.T) {
	t.Run("FirstRound", func(t *testing.T) {
		prompt, err := BuildPrompt(core.RoleAdvocate, "Is AI beneficial?", 1, &core.Transcript{}, nil, "")
		if err != nil {
			t.Fatalf("BuildPrompt failed: %v", err)
		}
		if !strings.Contains(prompt, "Is AI beneficial?") {
			t.Error("advocate prompt missing the topic")
		}
		if !strings.Contains(prompt, "You are the Advocate") {
			t.Error("advocate prompt missing default instruction")
		}
		if strings.Contains(prompt, "critic responded") {
			t.Error("first-round advocate prompt should not reference criticism")
		}
	})

	t.Run("LaterRoundSeesCriticism", func(t *testing.T) {
		tr := transcriptWith(
			core.Turn{Role: core.RoleAdvocate, Round: 1, Output: "opening argument"},
			core.Turn{Role: core.RoleCritic, Round: 1, Output: "your argument is circular"},
		)
		prompt, err := BuildPrompt(core.RoleAdvocate, "Is AI beneficial?", 2, tr, nil, "")
		if err != nil {
			t.Fatalf("BuildPrompt failed: %v", err)
		}
		if !strings.Contains(prompt, "your argument is circular") {
			t.Error("round-2 advocate prompt missing previous round's criticism")
		}
	})

	t.Run("Facts", func(t *testing.T) {
		prompt, err := BuildPrompt(core.RoleAdvocate, "Is AI beneficial?", 1, &core.Transcript{}, nil, "Wikipedia facts:\n1. AI")
		if err != nil {
			t.Fatalf("BuildPrompt failed: %v", err)
		}
		if !strings.Contains(prompt, "Wikipedia facts:") {
			t.Error("advocate prompt missing facts block")
		}
	})
}

func TestBuildPromptCritic(t *testing.T) {
	t.Run("SeesLatestArgument", func(t *testing.T) {
		tr := transcriptWith(
			core.Turn{Role: core.RoleAdvocate, Round: 1, Output: "old argument"},
			core.Turn{Role: core.RoleCritic, Round: 1, Output: "old criticism"},
			core.Turn{Role: core.RoleAdvocate, Round: 2, Output: "refined argument"},
		)
		prompt, err := BuildPrompt(core.RoleCritic, "topic", 2, tr, nil, "")
		if err != nil {
			t.Fatalf("BuildPrompt failed: %v", err)
		}
		if !strings.Contains(prompt, "refined argument") {
			t.Error("critic prompt missing the advocate's latest output")
		}
		if strings.Contains(prompt, "old criticism") {
			t.Error("critic prompt should not include its own prior output")
		}
	})

	t.Run("RequiresAdvocateTurn", func(t *testing.T) {
		_, err := BuildPrompt(core.RoleCritic, "topic", 1, &core.Transcript{}, nil, "")
		if err == nil {
			t.Error("expected error for critic prompt with no advocate turn")
		}
	})
}

func TestBuildPromptJudge(t *testing.T) {
	tr := transcriptWith(
		core.Turn{Role: core.RoleAdvocate, Round: 1, Output: "argument one"},
		core.Turn{Role: core.RoleCritic, Round: 1, Output: "criticism one"},
		core.Turn{Role: core.RoleAdvocate, Round: 2, Output: "argument two"},
		core.Turn{Role: core.RoleCritic, Round: 2, Output: "criticism two"},
	)

	prompt, err := BuildPrompt(core.RoleJudge, "topic", 2, tr, nil, "")
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}

	outputs := []string{"argument one", "criticism one", "argument two", "criticism two"}
	last := -1
	for _, out := range outputs {
		idx := strings.Index(prompt, out)
		if idx == -1 {
			t.Fatalf("judge prompt missing %q", out)
		}
		if idx < last {
			t.Errorf("judge prompt has %q out of chronological order", out)
		}
		last = idx
	}
}

func TestBuildPromptUnknownRole(t *testing.T) {
	_, err := BuildPrompt(core.Role("moderator"), "topic", 1, &core.Transcript{}, nil, "")
	if err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestInstructionsWithDefaults(t *testing.T) {
	custom := Instructions{
		core.RoleJudge: "Answer in one sentence.",
	}
	merged := custom.WithDefaults()

	if merged[core.RoleJudge] != "Answer in one sentence." {
		t.Error("custom instruction not preserved")
	}
	if merged[core.RoleAdvocate] == "" || merged[core.RoleCritic] == "" {
		t.Error("missing roles should get default instructions")
	}

	prompt, err := BuildPrompt(core.RoleJudge, "topic", 1, transcriptWith(
		core.Turn{Role: core.RoleAdvocate, Round: 1, Output: "a"},
		core.Turn{Role: core.RoleCritic, Round: 1, Output: "b"},
	), custom, "")
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}
	if !strings.Contains(prompt, "Answer in one sentence.") {
		t.Error("judge prompt missing custom instruction")
	}
}

func TestFormatHistorySkipsJudge(t *testing.T) {
	tr := transcriptWith(
		core.Turn{Role: core.RoleAdvocate, Round: 1, Output: "a"},
		core.Turn{Role: core.RoleCritic, Round: 1, Output: "b"},
		core.Turn{Role: core.RoleJudge, Round: 1, Output: "verdict"},
	)
	history := FormatHistory(tr)
	if strings.Contains(history, "verdict") {
		t.Error("history should not include judge output")
	}
	if !strings.Contains(history, "Advocate (Round 1)") || !strings.Contains(history, "Critic (Round 1)") {
		t.Error("history missing labelled turns")
	}
}
