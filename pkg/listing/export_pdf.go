package listing

import (
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

const (
	pdfRowHeight = 7.0
	pdfMaxCell   = 40
)

// WritePDF печатает строки таблицей на альбомном A4.
func WritePDF(w io.Writer, title string, cols []Column, rows []Row, generatedAt time.Time) error {
	cols = ColumnsFor(cols, rows)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 6, generatedAt.Format("02.01.2006 15:04"))
	pdf.Ln(8)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(cols))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range Headers(cols) {
		pdf.CellFormat(colWidth, pdfRowHeight, tr(truncate(h, pdfMaxCell)), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(rows) == 0 {
		pdf.CellFormat(colWidth*float64(len(cols)), pdfRowHeight, "No results found", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, r := range rows {
		for _, cell := range Cells(cols, r) {
			pdf.CellFormat(colWidth, pdfRowHeight, tr(truncate(cell, pdfMaxCell)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
