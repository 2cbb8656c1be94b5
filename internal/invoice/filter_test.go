// filter_test.go

package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	p := ListParams{}
	p.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPageSize, p.PageSize)
	assert.Equal(t, "created_at", p.SortBy)
	assert.True(t, p.SortDesc)
}

func TestNormalizeRejectsUnknownSort(t *testing.T) {
	// A sort key outside the allow-list falls back to the default
	// instead of reaching the SQL string.
	p := ListParams{SortBy: "password_hash; DROP TABLE users", SortDesc: false}
	p.Normalize()

	assert.Equal(t, "created_at", p.SortBy)
	assert.True(t, p.SortDesc)
}

func TestNormalizeCapsPageSize(t *testing.T) {
	p := ListParams{Page: 3, PageSize: 5000, SortBy: "total_ttc"}
	p.Normalize()

	assert.Equal(t, maxPageSize, p.PageSize)
	assert.Equal(t, "total_ttc", p.SortBy)
	assert.Equal(t, 2*maxPageSize, p.Offset())
}

func TestOrderByStableSecondaryKey(t *testing.T) {
	p := ListParams{SortBy: "date_emission", SortDesc: true}
	p.Normalize()

	assert.Equal(t, "i.date_emission DESC NULLS LAST, i.id ASC", p.OrderBy())

	p = ListParams{SortBy: "numero"}
	p.Normalize()

	assert.Equal(t, "i.numero ASC NULLS LAST, i.id ASC", p.OrderBy())
}

func TestCompileOwnerScopeFirst(t *testing.T) {
	minTotal := 100.0
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	p := ListParams{
		Search:   "FA-2025",
		MinTotal: &minTotal,
		DateFrom: &from,
	}

	where, args := p.compile("user-1")

	assert.Equal(
		t,
		"i.user_id = $1 AND "+
			"(i.numero ILIKE $2 OR sup.name ILIKE $2 OR buy.name ILIKE $2) AND "+
			"i.date_emission >= $3 AND i.total_ttc >= $4",
		where,
	)

	require.Len(t, args, 4)
	assert.Equal(t, "user-1", args[0])
	assert.Equal(t, "%FA-2025%", args[1])
	assert.Equal(t, from, args[2])
	assert.Equal(t, minTotal, args[3])
}

func TestCompileAdminScope(t *testing.T) {
	p := ListParams{SupplierID: "co-7"}

	where, args := p.compile("")

	assert.Equal(t, "TRUE AND i.supplier_id = $1", where)
	require.Len(t, args, 1)
	assert.Equal(t, "co-7", args[0])
}

func TestCompileSearchSpansCounterparties(t *testing.T) {
	// A personal search matches the invoice number and both party
	// names, but never the owning user's identity.
	p := ListParams{Search: "Acme"}

	where, args := p.compile("user-1")

	assert.Equal(
		t,
		"i.user_id = $1 AND "+
			"(i.numero ILIKE $2 OR sup.name ILIKE $2 OR buy.name ILIKE $2)",
		where,
	)
	assert.NotContains(t, where, "own.")

	require.Len(t, args, 2)
	assert.Equal(t, "%Acme%", args[1])
}

func TestCompileAdminSearchIncludesOwner(t *testing.T) {
	p := ListParams{Search: "dupont"}

	where, args := p.compile("")

	assert.Equal(
		t,
		"TRUE AND "+
			"(i.numero ILIKE $1 OR sup.name ILIKE $1 OR buy.name ILIKE $1"+
			" OR own.name ILIKE $1 OR own.email ILIKE $1)",
		where,
	)

	require.Len(t, args, 1)
	assert.Equal(t, "%dupont%", args[0])
}

func TestCompileEscapesLikeWildcards(t *testing.T) {
	p := ListParams{Search: "50%_remise"}

	_, args := p.compile("user-1")

	require.Len(t, args, 2)
	assert.Equal(t, `%50\%\_remise%`, args[1])
}
