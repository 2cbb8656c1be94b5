// filter.go

package invoice

import (
	"fmt"
	"strings"
	"time"
)

// sortColumns is the allow-list for user-supplied sort keys. Anything
// else falls back to the default ordering, never into the SQL string.
// Columns are qualified because list queries join the counterparty
// companies and the owning user for free-text search.
var sortColumns = map[string]string{
	"date_emission": "i.date_emission",
	"total_ttc":     "i.total_ttc",
	"numero":        "i.numero",
	"created_at":    "i.created_at",
}

const (
	defaultSort     = "created_at"
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListParams struct {
	Search     string
	SupplierID string
	BuyerID    string
	DateFrom   *time.Time
	DateTo     *time.Time
	MinTotal   *float64
	MaxTotal   *float64
	SortBy     string
	SortDesc   bool
	Page       int
	PageSize   int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if _, ok := sortColumns[p.SortBy]; !ok {
		p.SortBy = defaultSort
		p.SortDesc = true
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *ListParams) OrderBy() string {
	col := sortColumns[p.SortBy]
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}
	// Secondary key keeps pagination stable when the sort column ties
	// or is NULL.
	return fmt.Sprintf("%s %s NULLS LAST, i.id ASC", col, dir)
}

// compile builds the WHERE clause. The owner scope, when present, is
// always the first predicate; user filters only ever narrow it.
func (p *ListParams) compile(ownerID string) (string, []any) {
	var conditions []string
	var args []any
	argIdx := 1

	if ownerID != "" {
		conditions = append(conditions, fmt.Sprintf("i.user_id = $%d", argIdx))
		args = append(args, ownerID)
		argIdx++
	} else {
		conditions = append(conditions, "TRUE")
	}

	if p.Search != "" {
		// One OR group across number and counterparty names; the
		// admin view additionally matches the owning user.
		cond := fmt.Sprintf(
			"(i.numero ILIKE $%d OR sup.name ILIKE $%d OR buy.name ILIKE $%d",
			argIdx, argIdx, argIdx)
		if ownerID == "" {
			cond += fmt.Sprintf(
				" OR own.name ILIKE $%d OR own.email ILIKE $%d",
				argIdx, argIdx)
		}
		cond += ")"

		conditions = append(conditions, cond)
		args = append(args, "%"+escapeLike(p.Search)+"%")
		argIdx++
	}

	if p.SupplierID != "" {
		conditions = append(conditions, fmt.Sprintf("i.supplier_id = $%d", argIdx))
		args = append(args, p.SupplierID)
		argIdx++
	}

	if p.BuyerID != "" {
		conditions = append(conditions, fmt.Sprintf("i.buyer_id = $%d", argIdx))
		args = append(args, p.BuyerID)
		argIdx++
	}

	if p.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("i.date_emission >= $%d", argIdx))
		args = append(args, *p.DateFrom)
		argIdx++
	}

	if p.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("i.date_emission <= $%d", argIdx))
		args = append(args, *p.DateTo)
		argIdx++
	}

	if p.MinTotal != nil {
		conditions = append(conditions, fmt.Sprintf("i.total_ttc >= $%d", argIdx))
		args = append(args, *p.MinTotal)
		argIdx++
	}

	if p.MaxTotal != nil {
		conditions = append(conditions, fmt.Sprintf("i.total_ttc <= $%d", argIdx))
		args = append(args, *p.MaxTotal)
		argIdx++
	}

	return strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
