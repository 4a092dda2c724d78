package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pest-erp/pkg/listing"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func renderTable(w io.Writer, cols []listing.Column, rows []listing.Row) {
	cols = listing.ColumnsFor(cols, rows)
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No results found"))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(listing.Headers(cols)...)
	for _, r := range rows {
		t.Row(listing.Cells(cols, r)...)
	}
	fmt.Fprintln(w, t.Render())
}

func renderFooter(w io.Writer, page listing.DerivedPage) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Page %d of %d, %d rows", page.PageIndex+1, page.PageCount, page.TotalCount)))
}
