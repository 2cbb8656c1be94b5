// repository.go

package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkraiem/facture-saas/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Plan) error {
	query := `
		INSERT INTO subscription_plans (
			id, name, description, price, tokens_per_month, duration_days,
			features, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.TokensPerMonth,
		p.DurationDays,
		p.Features,
		p.IsActive,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create plan: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create plan: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Plan, error) {
	query := `
		SELECT id, name, description, price, tokens_per_month, duration_days,
		       features, is_active, created_at, updated_at
		FROM subscription_plans
		WHERE id = $1`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByName(
	ctx context.Context,
	name string,
) (*Plan, error) {
	query := `
		SELECT id, name, description, price, tokens_per_month, duration_days,
		       features, is_active, created_at, updated_at
		FROM subscription_plans
		WHERE name = $1`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plan by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan by name: %w", err)
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	activeOnly bool,
) ([]Plan, error) {
	query := `
		SELECT id, name, description, price, tokens_per_month, duration_days,
		       features, is_active, created_at, updated_at
		FROM subscription_plans`

	if activeOnly {
		query += `
		WHERE is_active = true`
	}

	query += `
		ORDER BY price ASC`

	var plans []Plan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	return plans, nil
}

func (r *repository) SetActive(
	ctx context.Context,
	id string,
	active bool,
) error {
	query := `
		UPDATE subscription_plans
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set plan status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set plan status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set plan status: %w", core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
