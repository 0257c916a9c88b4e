package admin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/secretos/internal/models"
)

func TestBuildPage_PageSizeBounds(t *testing.T) {
	rows := []Row{
		{Secret: models.Secret{ID: 1, Title: "a"}},
		{Secret: models.Secret{ID: 2, Title: "b"}},
	}

	cases := []struct {
		name     string
		q        Query
		size     int
		count    int
		page     int
		rowCount int
	}{
		{"default", Query{}, DefaultPageSize, 1, 1, 2},
		{"negative", Query{PageSize: -5}, DefaultPageSize, 1, 1, 2},
		{"exact fit", Query{PageSize: 2}, 2, 1, 1, 2},
		{"remainder", Query{PageSize: 1, Page: 2}, 1, 2, 2, 1},
		{"huge size", Query{PageSize: math.MaxInt}, MaxPageSize, 1, 1, 2},
		{"huge size and page", Query{PageSize: math.MaxInt, Page: math.MaxInt}, MaxPageSize, 1, 1, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := buildPage(append([]Row(nil), rows...), tc.q)
			require.Equal(t, tc.size, page.PageSize)
			require.Equal(t, tc.count, page.PageCount)
			require.Equal(t, tc.page, page.Page)
			require.Len(t, page.Rows, tc.rowCount)
			require.Equal(t, 2, page.Total)
		})
	}

	empty := buildPage(nil, Query{PageSize: math.MaxInt})
	require.Equal(t, 1, empty.PageCount)
	require.Empty(t, empty.Rows)
}
