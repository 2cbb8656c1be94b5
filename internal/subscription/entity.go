// entity.go

package subscription

import (
	"time"
)

// Subscription tracks one user's plan membership and token balance.
// tokens_remaining carries a CHECK (tokens_remaining >= 0) constraint;
// every change to it is mirrored by a token_ledger row.
type Subscription struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	PlanID          string    `db:"plan_id"`
	TokensRemaining int       `db:"tokens_remaining"`
	IsActive        bool      `db:"is_active"`
	StartedAt       time.Time `db:"started_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type LedgerEntry struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	SubscriptionID string    `db:"subscription_id"`
	InvoiceID      *string   `db:"invoice_id"`
	Delta          int       `db:"delta"`
	Reason         string    `db:"reason"`
	BalanceAfter   int       `db:"balance_after"`
	CreatedAt      time.Time `db:"created_at"`
}

const (
	ReasonUploadCharge = "UPLOAD_CHARGE"
	ReasonPlanGrant    = "PLAN_GRANT"
)
