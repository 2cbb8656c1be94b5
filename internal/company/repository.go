// repository.go

package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkraiem/facture-saas/internal/core"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Company, error)
	UpsertByName(ctx context.Context, upsert Upsert) (string, error)
	List(ctx context.Context, params ListParams) ([]Company, int, error)
}

// Upsert resolves a company by its unique name, creating the row if
// needed. A company seen as both supplier and client is promoted to
// type BOTH; contact fields take the latest extracted values,
// last write wins.
type Upsert struct {
	Name     string
	Type     string
	Address  *string
	TaxID    *string
	Email    *string
	Phone    *string
	Website  *string
	IBAN     *string
	BICSwift *string
}

type ListParams struct {
	Search   string
	Type     string
	Page     int
	PageSize int
}

const defaultPageSize = 20

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = defaultPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Company, error) {
	query := `
		SELECT id, name, type, address, tax_id, email, phone, website,
		       iban, bic_swift, created_at, updated_at
		FROM companies
		WHERE id = $1`

	var c Company
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get company: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}

	return &c, nil
}

func (r *repository) UpsertByName(
	ctx context.Context,
	upsert Upsert,
) (string, error) {
	query := `
		INSERT INTO companies (
			id, name, type, address, tax_id, email, phone, website,
			iban, bic_swift
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (name) DO UPDATE SET
			type = CASE
				WHEN companies.type <> EXCLUDED.type THEN 'BOTH'
				ELSE companies.type
			END,
			address    = EXCLUDED.address,
			tax_id     = EXCLUDED.tax_id,
			email      = EXCLUDED.email,
			phone      = EXCLUDED.phone,
			website    = EXCLUDED.website,
			iban       = EXCLUDED.iban,
			bic_swift  = EXCLUDED.bic_swift,
			updated_at = NOW()
		RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query,
		uuid.New().String(),
		upsert.Name,
		upsert.Type,
		upsert.Address,
		upsert.TaxID,
		upsert.Email,
		upsert.Phone,
		upsert.Website,
		upsert.IBAN,
		upsert.BICSwift,
	)
	if err != nil {
		return "", fmt.Errorf("upsert company: %w", err)
	}

	return id, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Company, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"name ILIKE $%d", argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, params.Type)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM companies WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, type, address, tax_id, email, phone, website,
		       iban, bic_swift, created_at, updated_at
		FROM companies
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var companies []Company
	if err := r.db.SelectContext(ctx, &companies, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}

	return companies, total, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
