// dto.go

package subscription

import (
	"time"
)

// PaymentRequest drives the simulated checkout. No money moves; card
// fields are validated for shape and the plan change is applied on
// success.
type PaymentRequest struct {
	PlanID      string `json:"plan_id"      validate:"required,uuid4"`
	Method      string `json:"method"       validate:"required,oneof=mastercard clictopay"`
	CardNumber  string `json:"card_number"  validate:"required,credit_card"`
	CardHolder  string `json:"card_holder"  validate:"required,min=1,max=100"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year"  validate:"required,min=2000,max=2100"`
	CVV         string `json:"cvv"          validate:"required,len=3,numeric"`
}

type ToggleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type SubscriptionResponse struct {
	ID              string    `json:"id"`
	PlanID          string    `json:"plan_id"`
	TokensRemaining int       `json:"tokens_remaining"`
	IsActive        bool      `json:"is_active"`
	StartedAt       time.Time `json:"started_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type LedgerEntryResponse struct {
	ID           string    `json:"id"`
	InvoiceID    *string   `json:"invoice_id,omitempty"`
	Delta        int       `json:"delta"`
	Reason       string    `json:"reason"`
	BalanceAfter int       `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToSubscriptionResponse(s *Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:              s.ID,
		PlanID:          s.PlanID,
		TokensRemaining: s.TokensRemaining,
		IsActive:        s.IsActive,
		StartedAt:       s.StartedAt,
		ExpiresAt:       s.ExpiresAt,
	}
}

func ToLedgerResponseList(entries []LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, LedgerEntryResponse{
			ID:           e.ID,
			InvoiceID:    e.InvoiceID,
			Delta:        e.Delta,
			Reason:       e.Reason,
			BalanceAfter: e.BalanceAfter,
			CreatedAt:    e.CreatedAt,
		})
	}
	return responses
}
