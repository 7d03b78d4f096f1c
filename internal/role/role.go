// Package role defines the three debate roles and builds their prompts.
package role

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
)

// Instructions maps each role to the instruction text prepended to its
// prompts. Missing roles fall back to the built-in defaults.
type Instructions map[core.Role]string

// DefaultInstructions returns the built-in role instructions.
func DefaultInstructions() Instructions {
	return Instructions{
		core.RoleAdvocate: `You are the Advocate. Your approach:
- Provide a specific, concrete answer to the question
- Present the strongest case for your answer
- Support your position with evidence and reasoning
- Address prior criticism directly when it is given to you
- Be persuasive but intellectually honest`,
		core.RoleCritic: `You are the Critic. Your approach:
- Critically analyze the argument you are given
- Question assumptions and identify weaknesses
- Point out missing evidence and logical gaps
- Demand specificity where the argument is vague
- Be rigorous but fair; do not attack positions the advocate did not take`,
		core.RoleJudge: `You are the Judge. Your approach:
- Weigh the full exchange between advocate and critic
- Identify which points survived criticism and which did not
- Synthesize everything into ONE specific, concrete final answer
- Be concise and decisive; do not restate the whole debate`,
	}
}

// WithDefaults returns a copy of i with built-in instructions substituted
// for any missing or empty role.
func (i Instructions) WithDefaults() Instructions {
	merged := DefaultInstructions()
	for r, text := range i {
		if strings.TrimSpace(text) != "" {
			merged[r] = text
		}
	}
	return merged
}

// promptData is the template context for all role prompts.
type promptData struct {
	Instruction       string
	Topic             string
	Facts             string
	Round             int
	PreviousCriticism string
	LatestArgument    string
	DebateHistory     string
}

var advocateTemplate = template.Must(template.New("advocate").Parse(`{{.Instruction}}

The question under debate: "{{.Topic}}"
{{- if .Facts}}

Background facts for reference:
{{.Facts}}
{{- end}}
{{- if .PreviousCriticism}}

In the previous round the critic responded:
---
{{.PreviousCriticism}}
---

Address this criticism and strengthen your case.
{{- end}}

Present your argument:`))

var criticTemplate = template.Must(template.New("critic").Parse(`{{.Instruction}}

The question under debate: "{{.Topic}}"
{{- if .Facts}}

Background facts for reference:
{{.Facts}}
{{- end}}

The advocate argued:
---
{{.LatestArgument}}
---

Critically analyze this argument:`))

var judgeTemplate = template.Must(template.New("judge").Parse(`{{.Instruction}}

The question under debate: "{{.Topic}}"

Here is the full debate:
{{.DebateHistory}}

Synthesize the exchange above into one final answer to the question:`))

// BuildPrompt constructs the exact text sent to the model for the given role
// against the current transcript. It is a pure function: identical inputs
// always produce identical prompt text.
//
// The advocate sees the previous round's criticism (rounds after the first),
// the critic sees the advocate's most recent argument, and the judge sees the
// complete advocate/critic history.
func BuildPrompt(r core.Role, topic string, round int, transcript *core.Transcript, inst Instructions, facts string) (string, error) {
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %s", r)
	}
	inst = inst.WithDefaults()

	data := promptData{
		Instruction: inst[r],
		Topic:       topic,
		Facts:       facts,
		Round:       round,
	}

	var tmpl *template.Template
	switch r {
	case core.RoleAdvocate:
		tmpl = advocateTemplate
		if round > 1 {
			data.PreviousCriticism = transcript.OutputFor(core.RoleCritic, round-1)
		}
	case core.RoleCritic:
		tmpl = criticTemplate
		data.LatestArgument = transcript.LastOutput(core.RoleAdvocate)
		if data.LatestArgument == "" {
			return "", fmt.Errorf("critic prompt requires a prior advocate turn")
		}
	case core.RoleJudge:
		tmpl = judgeTemplate
		data.DebateHistory = FormatHistory(transcript)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", r, err)
	}
	return buf.String(), nil
}

// FormatHistory renders the advocate/critic turns of a transcript as a
// labelled, chronologically ordered block.
func FormatHistory(transcript *core.Transcript) string {
	if transcript == nil {
		return ""
	}
	var b strings.Builder
	for _, turn := range transcript.Turns {
		if turn.Role == core.RoleJudge {
			continue
		}
		fmt.Fprintf(&b, "\n--- %s (Round %d) ---\n%s\n", titleCase(string(turn.Role)), turn.Round, turn.Output)
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
