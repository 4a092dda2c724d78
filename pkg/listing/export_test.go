package listing

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var exportCols = []Column{
	{Field: "id", Header: "ID", Numeric: true},
	{Field: "customer", Header: "Customer"},
	{Field: "amount", Header: "Amount", Numeric: true},
}

func TestRenderCSVQuotesEmbeddedDelimiters(t *testing.T) {
	rows := []Row{
		{"id": 1, "customer": "Shah, Rakesh", "amount": 1200.5},
		{"id": 2, "customer": `He said "ok"`, "amount": 0},
	}

	out := RenderCSV(exportCols, rows)
	assert.Equal(t, "ID,Customer,Amount\n1,\"Shah, Rakesh\",1200.5\n2,\"He said \"\"ok\"\"\",0\n", out)
}

func TestRenderCSVEmptyPageHasHeaderOnly(t *testing.T) {
	assert.Equal(t, "ID,Customer,Amount\n", RenderCSV(exportCols, nil))
}

func TestColumnsForDerivesFromRows(t *testing.T) {
	cols := ColumnsFor(nil, []Row{{"zeta": 1, "id": 1}, {"alpha": 2}})
	assert.Equal(t, []string{"id", "alpha", "zeta"}, Headers(cols))
}

func TestWritePrintHTML(t *testing.T) {
	var b bytes.Buffer
	rows := []Row{{"id": 1, "customer": "<script>alert(1)</script>", "amount": 10}}
	generated := time.Date(2025, 3, 4, 9, 5, 0, 0, time.UTC)

	require.NoError(t, WritePrintHTML(&b, "Customers", exportCols, rows, generated))
	html := b.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Equal(t, 1, strings.Count(html, "<table>"))
	assert.Contains(t, html, "<th>Customer</th>")
	assert.Contains(t, html, "04.03.2025 09:05")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "window.print()")
}

func TestWritePrintHTMLEmpty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WritePrintHTML(&b, "Customers", exportCols, nil, time.Now()))
	assert.Contains(t, b.String(), `<td colspan="3">No results found</td>`)
}

func TestWriteXLSX(t *testing.T) {
	var b bytes.Buffer
	rows := []Row{{"id": 7, "customer": "Acme", "amount": 99.5}}
	require.NoError(t, WriteXLSX(&b, "Customers", exportCols, rows))

	f, err := excelize.OpenReader(&b)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Customers", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Customer", header)

	name, err := f.GetCellValue("Customers", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme", name)

	amount, err := f.GetCellValue("Customers", "C2")
	require.NoError(t, err)
	assert.Equal(t, "99.5", amount)
}

func TestWritePDF(t *testing.T) {
	var b bytes.Buffer
	rows := []Row{{"id": 1, "customer": "Acme", "amount": 10}}
	require.NoError(t, WritePDF(&b, "Customers", exportCols, rows, time.Now()))
	assert.True(t, bytes.HasPrefix(b.Bytes(), []byte("%PDF-")))

	b.Reset()
	require.NoError(t, WritePDF(&b, "Empty", exportCols, nil, time.Now()))
	assert.NotZero(t, b.Len())
}
