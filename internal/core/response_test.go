// response_test.go

package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMeta(t *testing.T, rec *httptest.ResponseRecorder) Meta {
	t.Helper()

	var body struct {
		Success bool `json:"success"`
		Meta    Meta `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.True(t, body.Success)

	return body.Meta
}

func TestPaginatedTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageSize   int
		totalPages int
	}{
		{"exact multiple", 40, 20, 2},
		{"remainder rounds up", 41, 20, 3},
		{"partial single page", 7, 20, 1},
		{"empty result", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Paginated(rec, []string{}, 1, tt.pageSize, tt.total)

			require.Equal(t, http.StatusOK, rec.Code)

			meta := decodeMeta(t, rec)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.pageSize, meta.PageSize)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
		})
	}
}

func TestPaginatedEchoesPage(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2, 3}, 4, 10, 33)

	meta := decodeMeta(t, rec)
	assert.Equal(t, 4, meta.Page)
	assert.Equal(t, 4, meta.TotalPages)
}
