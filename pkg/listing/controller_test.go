package listing

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(rows []Row) []interface{} {
	out := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[IDField])
	}
	return out
}

func numberedRows(n int) []Row {
	rows := make([]Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, Row{"id": i, "name": fmt.Sprintf("Row %02d", i)})
	}
	return rows
}

func TestController_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	c := NewController(Config{SearchFields: []string{"name"}})
	c.SetRows([]Row{{"id": 1, "name": "Able Max"}, {"id": 2, "name": "Abate"}})

	c.SetSearchText("ab")
	assert.Equal(t, []interface{}{1, 2}, ids(c.Page().Rows))

	c.SetSearchText("able")
	assert.Equal(t, []interface{}{1}, ids(c.Page().Rows))

	c.SetSearchText("ABLE")
	assert.Equal(t, []interface{}{1}, ids(c.Page().Rows))

	c.SetSearchText("")
	assert.Equal(t, 2, c.Page().TotalCount)
}

func TestController_SearchOnlyDeclaredFields(t *testing.T) {
	c := NewController(Config{SearchFields: []string{"name"}})
	c.SetRows([]Row{{"id": 1, "name": "Termite", "note": "ant"}})

	c.SetSearchText("ant")
	assert.Equal(t, 0, c.Page().TotalCount)
}

func TestController_DateRange(t *testing.T) {
	c := NewController(Config{DateField: "serviceDate"})
	c.SetRows([]Row{
		{"id": 1, "serviceDate": "2025-01-03"},
		{"id": 2, "serviceDate": "2025-01-20"},
	})

	c.SetDateRange(date("2025-01-01"), date("2025-01-10"))
	assert.Equal(t, []interface{}{1}, ids(c.Page().Rows))

	c.ClearDateRange()
	assert.Equal(t, []interface{}{1, 2}, ids(c.Page().Rows))
}

func TestController_DateRangeBoundsAreInclusiveWholeDays(t *testing.T) {
	c := NewController(Config{DateField: "serviceDate"})
	c.SetRows([]Row{
		{"id": 1, "serviceDate": "2025-01-10T23:30:00Z"},
		{"id": 2, "serviceDate": "2025-01-01 00:00:00"},
		{"id": 3, "serviceDate": "2025-01-11"},
	})

	c.SetDateRange(date("2025-01-01"), date("2025-01-10"))
	assert.Equal(t, []interface{}{1, 2}, ids(c.Page().Rows))
}

func TestController_DateRangeOpenBounds(t *testing.T) {
	c := NewController(Config{DateField: "serviceDate"})
	c.SetRows([]Row{
		{"id": 1, "serviceDate": "2025-01-03"},
		{"id": 2, "serviceDate": "2025-01-20"},
	})

	c.SetDateRange(date("2025-01-10"), nil)
	assert.Equal(t, []interface{}{2}, ids(c.Page().Rows))

	c.SetDateRange(nil, date("2025-01-10"))
	assert.Equal(t, []interface{}{1}, ids(c.Page().Rows))
}

func TestController_DateFilterToggledOffIgnoresBounds(t *testing.T) {
	c := NewController(Config{DateField: "serviceDate"})
	c.SetRows([]Row{
		{"id": 1, "serviceDate": "2025-01-03"},
		{"id": 2, "serviceDate": "not a date"},
	})

	c.SetDateRange(date("2025-01-01"), date("2025-01-10"))
	assert.Equal(t, []interface{}{1}, ids(c.Page().Rows), "malformed date is excluded, not a crash")

	c.SetDateFilterEnabled(false)
	assert.Equal(t, 2, c.Page().TotalCount)
	assert.NotNil(t, c.Filter().From, "bounds are kept while the filter is off")

	c.SetDateFilterEnabled(true)
	assert.Equal(t, 1, c.Page().TotalCount)
}

func TestController_FieldFilter(t *testing.T) {
	c := NewController(Config{})
	c.SetRows([]Row{
		{"id": 1, "status": "Completed", "branch_id": 1},
		{"id": 2, "status": "Pending", "branch_id": 2},
		{"id": 3, "status": "Completed", "branch_id": 2},
	})

	c.SetFieldFilter("status", "Completed")
	assert.Equal(t, []interface{}{1, 3}, ids(c.Page().Rows))

	c.SetFieldFilter("branch_id", "2")
	assert.Equal(t, []interface{}{3}, ids(c.Page().Rows))

	c.SetFieldFilter("branch_id", nil)
	c.SetFieldFilter("status", nil)
	assert.Equal(t, 3, c.Page().TotalCount)

	c.SetFieldFilter("no_such_field", "x")
	page := c.Page()
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 1, page.PageCount)
	assert.True(t, page.Empty())
}

func TestController_FieldFilterIsCaseSensitiveExact(t *testing.T) {
	c := NewController(Config{})
	c.SetRows([]Row{{"id": 1, "status": "Completed"}})

	c.SetFieldFilter("status", "completed")
	assert.Equal(t, 0, c.Page().TotalCount)

	c.SetFieldFilter("status", "Complete")
	assert.Equal(t, 0, c.Page().TotalCount)
}

func TestController_SortToggle(t *testing.T) {
	c := NewController(Config{})
	c.SetRows([]Row{{"id": 3}, {"id": 1}, {"id": 2}})

	c.SetSort("id")
	assert.Equal(t, SortState{Field: "id", Direction: Asc}, c.Sort())
	assert.Equal(t, []interface{}{1, 2, 3}, ids(c.Page().Rows))

	c.SetSort("id")
	assert.Equal(t, Desc, c.Sort().Direction)
	assert.Equal(t, []interface{}{3, 2, 1}, ids(c.Page().Rows))

	c.SetSort("name")
	assert.Equal(t, SortState{Field: "name", Direction: Asc}, c.Sort())
}

func TestController_SortIDNumericallyNotLexically(t *testing.T) {
	c := NewController(Config{})
	c.SetRows([]Row{{"id": "10"}, {"id": "9"}, {"id": "100"}})

	c.SetSort("id")
	assert.Equal(t, []interface{}{"9", "10", "100"}, ids(c.Page().Rows))
}

func TestController_SortStringsCaseInsensitive(t *testing.T) {
	c := NewController(Config{})
	c.SetRows([]Row{
		{"id": 1, "name": "beta"},
		{"id": 2, "name": "Alpha"},
		{"id": 3, "name": "gamma"},
	})

	c.SetSort("name")
	assert.Equal(t, []interface{}{2, 1, 3}, ids(c.Page().Rows))
}

func TestController_DefaultSortNewestFirst(t *testing.T) {
	c := NewController(Config{DefaultSort: SortState{Field: "id", Direction: Desc}})
	c.SetRows([]Row{{"id": 1}, {"id": 3}, {"id": 2}})

	assert.Equal(t, []interface{}{3, 2, 1}, ids(c.Page().Rows))
}

func TestController_Pagination(t *testing.T) {
	c := NewController(Config{PageSize: 10})
	c.SetRows(numberedRows(12))

	page := c.Page()
	assert.Len(t, page.Rows, 10)
	assert.Equal(t, 2, page.PageCount)
	assert.Equal(t, 12, page.TotalCount)

	c.SetPage(1)
	assert.Len(t, c.Page().Rows, 2)

	c.SetPageSize(25)
	assert.Equal(t, 0, c.Pagination().PageIndex)
	page = c.Page()
	assert.Len(t, page.Rows, 12)
	assert.Equal(t, 1, page.PageCount)
}

func TestController_PaginationBoundaries(t *testing.T) {
	t.Run("empty working set", func(t *testing.T) {
		c := NewController(Config{PageSize: 10})
		page := c.Page()
		assert.Equal(t, 1, page.PageCount)
		assert.Empty(t, page.Rows)
		assert.NotNil(t, page.Rows)
	})

	t.Run("exact multiple", func(t *testing.T) {
		c := NewController(Config{PageSize: 5})
		c.SetRows(numberedRows(15))
		assert.Equal(t, 3, c.Page().PageCount)
		c.SetPage(2)
		assert.Len(t, c.Page().Rows, 5)
	})

	t.Run("out of range page is empty, not an error", func(t *testing.T) {
		c := NewController(Config{PageSize: 5})
		c.SetRows(numberedRows(3))
		c.SetPage(40)
		assert.Empty(t, c.Page().Rows)
		c.SetPage(-1)
		assert.Empty(t, c.Page().Rows)
	})

	t.Run("non-positive page size falls back to default", func(t *testing.T) {
		c := NewController(Config{PageSize: 25})
		c.SetPageSize(0)
		assert.Equal(t, 25, c.Pagination().PageSize)
	})
}

func TestController_ResetToFirstPageOnChange(t *testing.T) {
	changes := map[string]func(c *Controller){
		"search":       func(c *Controller) { c.SetSearchText("row") },
		"field filter": func(c *Controller) { c.SetFieldFilter("name", "Row 01") },
		"date range":   func(c *Controller) { c.SetDateRange(date("2025-01-01"), nil) },
		"date toggle":  func(c *Controller) { c.SetDateFilterEnabled(false) },
		"date clear":   func(c *Controller) { c.ClearDateRange() },
		"sort":         func(c *Controller) { c.SetSort("name") },
		"page size":    func(c *Controller) { c.SetPageSize(5) },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			c := NewController(Config{PageSize: 2, SearchFields: []string{"name"}})
			c.SetRows(numberedRows(10))
			c.SetPage(3)
			require.Equal(t, 3, c.Pagination().PageIndex)

			change(c)
			assert.Equal(t, 0, c.Pagination().PageIndex)
		})
	}
}

func TestController_SetRowsKeepsPosition(t *testing.T) {
	c := NewController(Config{PageSize: 2})
	c.SetRows(numberedRows(10))
	c.SetPage(2)

	c.SetRows(numberedRows(8))
	assert.Equal(t, 2, c.Pagination().PageIndex)
	assert.Equal(t, []interface{}{5, 6}, ids(c.Page().Rows))
}

func TestController_PageIsIdempotent(t *testing.T) {
	c := NewController(Config{PageSize: 3, SearchFields: []string{"name"}, DefaultSort: SortState{Field: "id", Direction: Desc}})
	c.SetRows(numberedRows(10))
	c.SetSearchText("row")

	first := c.Page()
	second := c.Page()
	assert.Equal(t, first, second)

	c.SetSearchText("row")
	assert.Equal(t, first, c.Page())
}

func TestController_FilterStateIsACopy(t *testing.T) {
	c := NewController(Config{})
	c.SetFieldFilter("status", "Done")

	f := c.Filter()
	f.FieldFilters["status"] = "Tampered"
	assert.Equal(t, "Done", c.Filter().FieldFilters["status"])
}

func randomRows(rng *rand.Rand, n int) []Row {
	statuses := []string{"Completed", "Pending", "Cancelled"}
	names := []string{"Able", "abate", "Termite", "Rodent", "Cockroach", "Mosquito"}
	rows := make([]Row, 0, n)
	for i := 1; i <= n; i++ {
		day := 1 + rng.Intn(28)
		rows = append(rows, Row{
			"id":          i,
			"name":        names[rng.Intn(len(names))],
			"status":      statuses[rng.Intn(len(statuses))],
			"serviceDate": fmt.Sprintf("2025-02-%02d", day),
		})
	}
	return rows
}

func TestController_HugePageIndexIsEmptyPage(t *testing.T) {
	c := NewController(Config{PageSize: 100})
	c.SetRows(numberedRows(12))
	c.SetPage(math.MaxInt64 / 50)

	var page DerivedPage
	require.NotPanics(t, func() { page = c.Page() })
	assert.Empty(t, page.Rows)
	assert.Equal(t, 12, page.TotalCount)
	assert.Equal(t, 1, page.PageCount)
}

func TestController_CountConservationAcrossPages(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 50; iter++ {
		rows := randomRows(rng, rng.Intn(120))
		pageSize := PageSizeOptions[rng.Intn(len(PageSizeOptions))]

		c := NewController(Config{PageSize: pageSize, SearchFields: []string{"name", "status"}, DateField: "serviceDate"})
		c.SetRows(rows)
		c.SetSearchText([]string{"", "ab", "o", "zzz"}[rng.Intn(4)])
		if rng.Intn(2) == 0 {
			c.SetFieldFilter("status", "Pending")
		}
		if rng.Intn(2) == 0 {
			c.SetDateRange(date("2025-02-05"), date("2025-02-20"))
		}
		c.SetSort([]string{"id", "name", "serviceDate"}[rng.Intn(3)])

		expected := 0
		pred := c.Predicate()
		for _, r := range rows {
			if pred(r) {
				expected++
			}
		}

		first := c.Page()
		require.Equal(t, expected, first.TotalCount)

		sum := 0
		seen := map[interface{}]bool{}
		for p := 0; p < first.PageCount; p++ {
			c.SetPage(p)
			page := c.Page()
			want := min(pageSize, max(0, page.TotalCount-p*pageSize))
			require.Len(t, page.Rows, want)
			for _, r := range page.Rows {
				require.False(t, seen[r[IDField]], "row counted twice")
				seen[r[IDField]] = true
			}
			sum += len(page.Rows)
		}
		assert.Equal(t, expected, sum)
	}
}

func TestController_SortRoundTripReversesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rows := numberedRows(40)
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

	for _, field := range []string{"id", "name"} {
		c := NewController(Config{PageSize: 100})
		c.SetRows(rows)

		c.SetSort(field)
		asc := ids(c.Page().Rows)
		c.SetSort(field)
		desc := ids(c.Page().Rows)

		require.Len(t, desc, len(asc))
		for i := range asc {
			assert.Equal(t, asc[i], desc[len(desc)-1-i])
		}
	}
}

func TestController_ExportsVisiblePageOnly(t *testing.T) {
	c := NewController(Config{
		PageSize: 2,
		Columns:  []Column{{Field: "id", Header: "ID"}, {Field: "name", Header: "Name"}},
	})
	c.SetRows(numberedRows(5))

	csv := c.ExportCSV()
	assert.Equal(t, "ID,Name\n1,Row 01\n2,Row 02\n", csv)

	html := c.ExportPrintHTML("Pest List")
	assert.Contains(t, html, "<td>Row 02</td>")
	assert.NotContains(t, html, "Row 03")
}
