package admin

import (
	"sort"
	"strings"

	"github.com/sujalbistaa/secretos/internal/models"
)

// Column names a table column.
type Column string

const (
	ColumnID        Column = "id"
	ColumnCreatedAt Column = "created_at"
	ColumnTitle     Column = "titulo"
	ColumnContent   Column = "content"
	ColumnSchool    Column = "school"
	ColumnApproved  Column = "approved"
)

// Columns lists every column in display order.
var Columns = []Column{ColumnID, ColumnCreatedAt, ColumnTitle, ColumnContent, ColumnSchool, ColumnApproved}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParseColumn returns false for unknown names.
func ParseColumn(s string) (Column, bool) {
	for _, c := range Columns {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Row is a loaded secret plus its in-flight state.
type Row struct {
	models.Secret
	Pending bool `json:"pending"`
}

// Value returns the cell for col.
func (r Row) Value(col Column) any {
	switch col {
	case ColumnID:
		return r.ID
	case ColumnCreatedAt:
		return r.CreatedAt
	case ColumnTitle:
		return r.Title
	case ColumnContent:
		return r.Content
	case ColumnSchool:
		return r.SchoolID
	case ColumnApproved:
		return r.Approved
	}
	return nil
}

// Query selects what View shows. Zero values mean: no filter, load order,
// first page, DefaultPageSize, every column. PageSize is capped at
// MaxPageSize.
type Query struct {
	Filter   string
	SortBy   Column
	Desc     bool
	Page     int
	PageSize int
	Hidden   []Column
}

// Page is one rendered page of the table.
type Page struct {
	Columns   []Column `json:"columns"`
	Rows      []Row    `json:"rows"`
	Total     int      `json:"total"`
	Page      int      `json:"page"`
	PageSize  int      `json:"pageSize"`
	PageCount int      `json:"pageCount"`
}

func buildPage(rows []Row, q Query) Page {
	if f := strings.ToLower(strings.TrimSpace(q.Filter)); f != "" {
		filtered := rows[:0]
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Title), f) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if _, ok := ParseColumn(string(q.SortBy)); ok {
		sort.SliceStable(rows, func(i, j int) bool {
			if q.Desc {
				return less(rows[j], rows[i], q.SortBy)
			}
			return less(rows[i], rows[j], q.SortBy)
		})
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	count := len(rows) / size
	if len(rows)%size != 0 || count == 0 {
		count++
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > count {
		page = count
	}

	start := (page - 1) * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}

	return Page{
		Columns:   visibleColumns(q.Hidden),
		Rows:      append([]Row(nil), rows[start:end]...),
		Total:     len(rows),
		Page:      page,
		PageSize:  size,
		PageCount: count,
	}
}

func visibleColumns(hidden []Column) []Column {
	skip := make(map[Column]bool, len(hidden))
	for _, c := range hidden {
		skip[c] = true
	}
	out := make([]Column, 0, len(Columns))
	for _, c := range Columns {
		if !skip[c] {
			out = append(out, c)
		}
	}
	return out
}

func less(a, b Row, col Column) bool {
	switch col {
	case ColumnID:
		return a.ID < b.ID
	case ColumnCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	case ColumnTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case ColumnContent:
		return strings.ToLower(a.Content) < strings.ToLower(b.Content)
	case ColumnSchool:
		return a.SchoolID < b.SchoolID
	case ColumnApproved:
		return !a.Approved && b.Approved
	}
	return false
}
