// repository_test.go

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileOwnerScope(t *testing.T) {
	where, args, err := Filters{}.compile("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user_id = ?", where)
	require.Len(t, args, 1)
	assert.Equal(t, "user-1", args[0])
}

func TestCompileGlobalScope(t *testing.T) {
	where, args, err := Filters{}.compile("")
	require.NoError(t, err)

	assert.Equal(t, "1 = 1", where)
	assert.Empty(t, args)
}

func TestCompileCompanySetExpansion(t *testing.T) {
	f := Filters{CompanyIDs: []string{"co-1", "co-2"}}

	where, args, err := f.compile("user-1")
	require.NoError(t, err)

	assert.Equal(
		t,
		"user_id = ? AND (supplier_id IN (?, ?) OR buyer_id IN (?, ?))",
		where,
	)
	assert.Equal(
		t,
		[]any{"user-1", "co-1", "co-2", "co-1", "co-2"},
		args,
	)
}

func TestCompileRoleNarrowsColumn(t *testing.T) {
	f := Filters{CompanyIDs: []string{"co-1"}, Role: RoleSupplier}

	where, args, err := f.compile("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user_id = ? AND supplier_id IN (?)", where)
	assert.Equal(t, []any{"user-1", "co-1"}, args)
}

func TestCompileRangeFilters(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	minTotal := 50.0

	f := Filters{DateFrom: &from, MinTotal: &minTotal}

	where, args, err := f.compile("user-1")
	require.NoError(t, err)

	assert.Equal(
		t,
		"user_id = ? AND date_emission >= ? AND total_ttc >= ?",
		where,
	)
	require.Len(t, args, 3)
	assert.Equal(t, from, args[1])
	assert.Equal(t, minTotal, args[2])
}
