package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
)

// generatePDF renders the statistics report as a PDF. Labels are kept in
// ASCII because gofpdf's core fonts cannot render CJK glyphs.
func generatePDF(roots []string, sorted []FileStat, sum Summary, now time.Time, withTokens bool, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	usable := float64(pdfPageWidth - 2*pdfMargin)

	pdf.SetFont("Helvetica", "B", pdfFontSize+5)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(usable, pdfLineHeight+2, "JSON Entry Count Report", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Helvetica", "", pdfFontSize)
	header := fmt.Sprintf("Generated: %s\nScan roots: %s\nTotal files: %d\nTotal entries: %s",
		now.Format("2006-01-02 15:04:05"),
		strings.Join(roots, ", "),
		sum.LocatedFiles,
		groupDigits(sum.TotalEntries))
	if withTokens {
		header += fmt.Sprintf("\nTotal tokens: %s", groupDigits(sum.TotalTokens))
	}
	if sum.FailedFiles > 0 {
		header += fmt.Sprintf("\nFiles failed to parse: %d", sum.FailedFiles)
	}
	pdf.MultiCell(usable, pdfLineHeight, header, "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Courier", "", pdfFontSize)
	for _, s := range sorted {
		line := fmt.Sprintf("%10s - %s", groupDigits(int64(s.Entries)), s.Path)
		if withTokens {
			line += fmt.Sprintf(" (tokens: %s)", groupDigits(int64(s.Tokens)))
		}
		pdf.MultiCell(usable, pdfLineHeight, line, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}
