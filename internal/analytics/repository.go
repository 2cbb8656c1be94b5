// repository.go

package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkraiem/facture-saas/internal/invoice"
)

// tableCap bounds the detail table in the analytics response.
const tableCap = 50

type Filters struct {
	CompanyIDs []string
	Role       string
	DateFrom   *time.Time
	DateTo     *time.Time
	MinTotal   *float64
	MaxTotal   *float64
}

const (
	RoleSupplier = "supplier"
	RoleBuyer    = "buyer"
)

type Stats struct {
	InvoiceCount      int     `db:"invoice_count"`
	TotalSum          float64 `db:"total_sum"`
	TotalAvg          float64 `db:"total_avg"`
	DistinctCompanies int     `db:"distinct_companies"`
}

type Trend struct {
	CurrentTotal  float64 `db:"current_total"`
	PreviousTotal float64 `db:"previous_total"`
}

type Repository interface {
	Aggregate(ctx context.Context, userID string, f Filters) (*Stats, error)
	Trend(ctx context.Context, userID string) (*Trend, error)
	RecentInvoices(
		ctx context.Context,
		userID string,
		f Filters,
	) ([]invoice.Invoice, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// compile renders the filter set. A non-empty userID scopes every
// query to that tenant's invoices; admins pass an empty userID for a
// global view.
func (f Filters) compile(userID string) (string, []any, error) {
	conditions := []string{"1 = 1"}
	args := []any{}

	if userID != "" {
		conditions = []string{"user_id = ?"}
		args = append(args, userID)
	}

	if len(f.CompanyIDs) > 0 {
		switch f.Role {
		case RoleSupplier:
			conditions = append(conditions, "supplier_id IN (?)")
			args = append(args, f.CompanyIDs)
		case RoleBuyer:
			conditions = append(conditions, "buyer_id IN (?)")
			args = append(args, f.CompanyIDs)
		default:
			conditions = append(
				conditions, "(supplier_id IN (?) OR buyer_id IN (?))",
			)
			args = append(args, f.CompanyIDs, f.CompanyIDs)
		}
	}

	if f.DateFrom != nil {
		conditions = append(conditions, "date_emission >= ?")
		args = append(args, *f.DateFrom)
	}

	if f.DateTo != nil {
		conditions = append(conditions, "date_emission <= ?")
		args = append(args, *f.DateTo)
	}

	if f.MinTotal != nil {
		conditions = append(conditions, "total_ttc >= ?")
		args = append(args, *f.MinTotal)
	}

	if f.MaxTotal != nil {
		conditions = append(conditions, "total_ttc <= ?")
		args = append(args, *f.MaxTotal)
	}

	where := strings.Join(conditions, " AND ")

	expanded, expandedArgs, err := sqlx.In(where, args...)
	if err != nil {
		return "", nil, fmt.Errorf("compile analytics filters: %w", err)
	}

	return expanded, expandedArgs, nil
}

func (r *repository) Aggregate(
	ctx context.Context,
	userID string,
	f Filters,
) (*Stats, error) {
	where, args, err := f.compile(userID)
	if err != nil {
		return nil, err
	}

	// Distinct counterparties is the union of supplier and buyer
	// columns over the same filtered rows.
	query := r.db.Rebind(fmt.Sprintf(`
		SELECT
			COUNT(*) AS invoice_count,
			COALESCE(SUM(total_ttc), 0) AS total_sum,
			COALESCE(AVG(total_ttc), 0) AS total_avg,
			(
				SELECT COUNT(DISTINCT cid) FROM (
					SELECT supplier_id AS cid FROM invoices WHERE %s
					UNION
					SELECT buyer_id AS cid FROM invoices WHERE %s
				) AS parties
				WHERE cid IS NOT NULL
			) AS distinct_companies
		FROM invoices
		WHERE %s`, where, where, where))

	tripled := make([]any, 0, 3*len(args))
	tripled = append(tripled, args...)
	tripled = append(tripled, args...)
	tripled = append(tripled, args...)

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, tripled...); err != nil {
		return nil, fmt.Errorf("aggregate invoices: %w", err)
	}

	return &stats, nil
}

func (r *repository) Trend(
	ctx context.Context,
	userID string,
) (*Trend, error) {
	query := `
		SELECT
			COALESCE(SUM(total_ttc) FILTER (
				WHERE date_emission >= NOW() - INTERVAL '30 days'
			), 0) AS current_total,
			COALESCE(SUM(total_ttc) FILTER (
				WHERE date_emission >= NOW() - INTERVAL '60 days'
				  AND date_emission < NOW() - INTERVAL '30 days'
			), 0) AS previous_total
		FROM invoices`

	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}

	var trend Trend
	if err := r.db.GetContext(ctx, &trend, query, args...); err != nil {
		return nil, fmt.Errorf("invoice trend: %w", err)
	}

	return &trend, nil
}

func (r *repository) RecentInvoices(
	ctx context.Context,
	userID string,
	f Filters,
) ([]invoice.Invoice, error) {
	where, args, err := f.compile(userID)
	if err != nil {
		return nil, err
	}

	query := r.db.Rebind(fmt.Sprintf(`
		SELECT id, user_id, supplier_id, buyer_id, numero, date_emission,
		       date_echeance, devise, total_ttc, created_at, updated_at
		FROM invoices
		WHERE %s
		ORDER BY date_emission DESC NULLS LAST, created_at DESC
		LIMIT %d`, where, tableCap))

	var invoices []invoice.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("recent invoices: %w", err)
	}

	return invoices, nil
}
