package listing

import (
	"encoding/csv"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// ColumnsFor возвращает колонки экспорта. Если страница их не объявила,
// берутся все поля строк: сначала id, остальные по алфавиту.
func ColumnsFor(cols []Column, rows []Row) []Column {
	if len(cols) > 0 {
		return cols
	}
	seen := map[string]bool{}
	var fields []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] && k != IDField {
				seen[k] = true
				fields = append(fields, k)
			}
		}
	}
	sort.Strings(fields)
	out := []Column{{Field: IDField, Header: IDField}}
	for _, f := range fields {
		out = append(out, Column{Field: f, Header: f})
	}
	return out
}

// Headers - подписи колонок (Header, либо имя поля).
func Headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
		if out[i] == "" {
			out[i] = c.Field
		}
	}
	return out
}

// Cells - значения строки в порядке колонок.
func Cells(cols []Column, r Row) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = FormatValue(r[c.Field])
	}
	return out
}

// WriteCSV пишет заголовок и строки. Поля с запятыми, кавычками и переводами
// строк экранируются по RFC 4180.
func WriteCSV(w io.Writer, cols []Column, rows []Row) error {
	cols = ColumnsFor(cols, rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(cols)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(Cells(cols, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCSV - WriteCSV в строку.
func RenderCSV(cols []Column, rows []Row) string {
	var b strings.Builder
	_ = WriteCSV(&b, cols, rows) // запись в strings.Builder не возвращает ошибок
	return b.String()
}

const printTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title | trim | default "Report" }}</title>
<style>
body { font-family: Arial, sans-serif; font-size: 12px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #444; padding: 4px 6px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body onload="window.print()">
<h2>{{ .Title | trim | default "Report" }}</h2>
<p>{{ dateInZone "02.01.2006 15:04" .GeneratedAt .Zone }}</p>
<table>
<thead><tr>{{ range .Headers }}<th>{{ . }}</th>{{ end }}</tr></thead>
<tbody>
{{- range .Rows }}
<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
{{- else }}
<tr><td colspan="{{ len .Headers }}">No results found</td></tr>
{{- end }}
</tbody>
</table>
</body>
</html>
`

var printTmpl = template.Must(template.New("print").Funcs(sprig.FuncMap()).Parse(printTemplate))

type printData struct {
	Title       string
	GeneratedAt time.Time
	Zone        string
	Headers     []string
	Rows        [][]string
}

// WritePrintHTML пишет автономный HTML-документ с одной таблицей.
func WritePrintHTML(w io.Writer, title string, cols []Column, rows []Row, generatedAt time.Time) error {
	cols = ColumnsFor(cols, rows)
	data := printData{
		Title:       title,
		GeneratedAt: generatedAt,
		Zone:        generatedAt.Location().String(),
		Headers:     Headers(cols),
		Rows:        make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, Cells(cols, r))
	}
	return printTmpl.Execute(w, data)
}

// RenderPrintHTML - WritePrintHTML в строку с текущим временем.
func RenderPrintHTML(title string, cols []Column, rows []Row) string {
	var b strings.Builder
	if err := WritePrintHTML(&b, title, cols, rows, time.Now()); err != nil {
		return ""
	}
	return b.String()
}
