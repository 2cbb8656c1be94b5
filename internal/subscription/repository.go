// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkraiem/facture-saas/internal/core"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)
	ChangePlan(
		ctx context.Context,
		userID, planID string,
		tokens, durationDays int,
	) (*Subscription, error)
	SetActive(ctx context.Context, userID string, active bool) error
	ListLedger(
		ctx context.Context,
		userID string,
		page, pageSize int,
	) ([]LedgerEntry, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// CreateTx provisions a subscription inside the caller's transaction.
// Registration uses it so the user, company and subscription commit
// together.
func CreateTx(
	ctx context.Context,
	db core.DBTX,
	userID, planID string,
	tokens, durationDays int,
) (*Subscription, error) {
	query := `
		INSERT INTO subscriptions (
			id, user_id, plan_id, tokens_remaining, is_active,
			started_at, expires_at
		) VALUES (
			$1, $2, $3, $4, true,
			NOW(), NOW() + make_interval(days => $5)
		)
		RETURNING id, user_id, plan_id, tokens_remaining, is_active,
		          started_at, expires_at, created_at, updated_at`

	var sub Subscription
	err := db.GetContext(ctx, &sub, query,
		uuid.New().String(), userID, planID, tokens, durationDays,
	)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	if err := AppendLedgerTx(ctx, db, &LedgerEntry{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Delta:          tokens,
		Reason:         ReasonPlanGrant,
		BalanceAfter:   tokens,
	}); err != nil {
		return nil, err
	}

	return &sub, nil
}

// ConsumeTokenTx performs the guarded single-token decrement. The
// predicate tokens_remaining > 0 makes concurrent uploads race safely:
// the last token goes to exactly one of them.
func ConsumeTokenTx(
	ctx context.Context,
	db core.DBTX,
	userID string,
	invoiceID *string,
) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET tokens_remaining = tokens_remaining - 1, updated_at = NOW()
		WHERE user_id = $1 AND is_active = true
		  AND expires_at > NOW() AND tokens_remaining > 0
		RETURNING id, user_id, plan_id, tokens_remaining, is_active,
		          started_at, expires_at, created_at, updated_at`

	var sub Subscription
	err := db.GetContext(ctx, &sub, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, classifyConsumeFailure(ctx, db, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("consume token: %w", err)
	}

	if err := AppendLedgerTx(ctx, db, &LedgerEntry{
		UserID:         userID,
		SubscriptionID: sub.ID,
		InvoiceID:      invoiceID,
		Delta:          -1,
		Reason:         ReasonUploadCharge,
		BalanceAfter:   sub.TokensRemaining,
	}); err != nil {
		return nil, err
	}

	return &sub, nil
}

func classifyConsumeFailure(
	ctx context.Context,
	db core.DBTX,
	userID string,
) error {
	query := `
		SELECT id, user_id, plan_id, tokens_remaining, is_active,
		       started_at, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1`

	var sub Subscription
	err := db.GetContext(ctx, &sub, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("consume token: no subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}

	if !sub.IsActive {
		return fmt.Errorf("consume token: subscription inactive: %w", core.ErrForbidden)
	}

	if !sub.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("consume token: subscription expired: %w", core.ErrForbidden)
	}

	return fmt.Errorf("consume token: %w", core.ErrTokensExhausted)
}

// AppendLedgerTx records a balance movement with the caller's executor.
func AppendLedgerTx(
	ctx context.Context,
	db core.DBTX,
	entry *LedgerEntry,
) error {
	query := `
		INSERT INTO token_ledger (
			id, user_id, subscription_id, invoice_id, delta, reason,
			balance_after
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if _, err := db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.SubscriptionID,
		entry.InvoiceID,
		entry.Delta,
		entry.Reason,
		entry.BalanceAfter,
	); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	return nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, tokens_remaining, is_active,
		       started_at, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &sub, nil
}

func (r *repository) ChangePlan(
	ctx context.Context,
	userID, planID string,
	tokens, durationDays int,
) (*Subscription, error) {
	query := `
		UPDATE subscriptions
		SET plan_id = $2, tokens_remaining = $3, is_active = true,
		    started_at = NOW(),
		    expires_at = NOW() + make_interval(days => $4),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, plan_id, tokens_remaining, is_active,
		          started_at, expires_at, created_at, updated_at`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query, userID, planID, tokens, durationDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("change plan: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("change plan: %w", err)
	}

	if err := AppendLedgerTx(ctx, r.db, &LedgerEntry{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Delta:          tokens,
		Reason:         ReasonPlanGrant,
		BalanceAfter:   sub.TokensRemaining,
	}); err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *repository) SetActive(
	ctx context.Context,
	userID string,
	active bool,
) error {
	query := `
		UPDATE subscriptions
		SET is_active = $2, updated_at = NOW()
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, active)
	if err != nil {
		return fmt.Errorf("toggle subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle subscription: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("toggle subscription: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListLedger(
	ctx context.Context,
	userID string,
	page, pageSize int,
) ([]LedgerEntry, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	countQuery := `SELECT COUNT(*) FROM token_ledger WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := `
		SELECT id, user_id, subscription_id, invoice_id, delta, reason,
		       balance_after, created_at
		FROM token_ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var entries []LedgerEntry
	err := r.db.SelectContext(
		ctx, &entries, query, userID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}

	return entries, total, nil
}
