package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/UserofUser-s/ai-collaborative-answer/internal/core"
)

// PDFExporter exports debate results to PDF format.
type PDFExporter struct{}

// Export writes the result as PDF.
func (e *PDFExporter) Export(result *core.Result, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 10, result.Prompt, "", "C", false)
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Debate Information")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	e.addMetadataRow(pdf, "ID:", shortID(result.ID))
	e.addMetadataRow(pdf, "Status:", string(result.Status))
	e.addMetadataRow(pdf, "Rounds:", fmt.Sprintf("%d", result.Rounds()))
	e.addMetadataRow(pdf, "Created:", result.CreatedAt.Format("January 2, 2006 at 3:04 PM"))
	if result.CompletedAt != nil {
		e.addMetadataRow(pdf, "Duration:", formatDuration(result.CreatedAt, *result.CompletedAt))
	}
	if result.Status == core.StatusFailed {
		e.addMetadataRow(pdf, "Failed at:", fmt.Sprintf("%s turn, round %d", result.FailedRole, result.FailedRound))
	}
	pdf.Ln(5)

	// Transcript
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Transcript")
	pdf.Ln(8)

	if result.Transcript.Len() == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, "No turns recorded.")
		pdf.Ln(6)
	} else {
		for _, turn := range result.Transcript.Turns {
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 7, fmt.Sprintf("%s (Round %d)", roleLabel(turn.Role), turn.Round))
			pdf.Ln(7)

			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, turn.Output, "", "L", false)
			pdf.Ln(4)
		}
	}

	// Final answer
	if result.FinalAnswer != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Final Answer")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, result.FinalAnswer, "", "L", false)
	}

	return pdf.Output(w)
}

func (e *PDFExporter) addMetadataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(30, 6, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

// FileExtension returns the file extension for PDF exports.
func (e *PDFExporter) FileExtension() string {
	return "pdf"
}
