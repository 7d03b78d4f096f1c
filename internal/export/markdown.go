package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
)

// MarkdownExporter exports debate results to Markdown format.
type MarkdownExporter struct{}

// Export writes the result as Markdown.
func (e *MarkdownExporter) Export(result *core.Result, w io.Writer) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Debate: %s\n\n", result.Prompt))

	b.WriteString("## Information\n\n")
	b.WriteString(fmt.Sprintf("- **ID**: %s\n", result.ID))
	b.WriteString(fmt.Sprintf("- **Status**: %s\n", result.Status))
	b.WriteString(fmt.Sprintf("- **Rounds**: %d\n", result.Rounds()))
	b.WriteString(fmt.Sprintf("- **Created**: %s\n", result.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	if result.CompletedAt != nil {
		b.WriteString(fmt.Sprintf("- **Duration**: %s\n", formatDuration(result.CreatedAt, *result.CompletedAt)))
	}
	if result.Status == core.StatusFailed {
		b.WriteString(fmt.Sprintf("- **Failed at**: %s turn, round %d\n", result.FailedRole, result.FailedRound))
	}
	b.WriteString("\n")

	b.WriteString("## Transcript\n\n")
	if result.Transcript.Len() == 0 {
		b.WriteString("_No turns recorded._\n\n")
	}
	for _, turn := range result.Transcript.Turns {
		b.WriteString(fmt.Sprintf("### %s (Round %d)\n\n", roleLabel(turn.Role), turn.Round))
		b.WriteString(turn.Output)
		b.WriteString("\n\n")
	}

	if result.FinalAnswer != "" {
		b.WriteString("## Final Answer\n\n")
		b.WriteString(result.FinalAnswer)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FileExtension returns the file extension for Markdown exports.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
