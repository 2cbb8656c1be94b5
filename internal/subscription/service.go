// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkraiem/facture-saas/internal/audit"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/plan"
)

var ErrCardExpired = errors.New("card expired")
var ErrPlanInactive = errors.New("plan is not available")

type Service struct {
	repo  Repository
	plans plan.Repository
	audit *audit.Recorder
}

func NewService(
	repo Repository,
	plans plan.Repository,
	auditRec *audit.Recorder,
) *Service {
	return &Service{repo: repo, plans: plans, audit: auditRec}
}

func (s *Service) GetMySubscription(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// ProcessPayment runs the simulated checkout and, on success, moves
// the user to the requested plan with a fresh token allotment.
func (s *Service) ProcessPayment(
	ctx context.Context,
	userID string,
	req PaymentRequest,
) (*Subscription, error) {
	now := time.Now()
	expiry := time.Date(
		req.ExpiryYear, time.Month(req.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC,
	).AddDate(0, 1, 0)
	if !expiry.After(now) {
		return nil, ErrCardExpired
	}

	p, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	if !p.IsActive {
		return nil, ErrPlanInactive
	}

	sub, err := s.repo.ChangePlan(ctx, userID, p.ID, p.TokensPerMonth, p.DurationDays)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks the plan change
	_ = s.audit.Record(
		ctx,
		userID,
		audit.ActionPaymentSuccess,
		fmt.Sprintf("%s via %s", p.Name, req.Method),
	)
	//nolint:errcheck // audit failure never blocks the plan change
	_ = s.audit.Record(ctx, userID, audit.ActionSubscriptionChange, p.Name)

	return sub, nil
}

func (s *Service) Toggle(
	ctx context.Context,
	userID string,
	active bool,
) (*Subscription, error) {
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}

	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks the toggle
	_ = s.audit.Record(
		ctx,
		userID,
		audit.ActionSubscriptionToggle,
		fmt.Sprintf("active=%t", active),
	)

	return sub, nil
}

func (s *Service) ListLedger(
	ctx context.Context,
	userID string,
	page, pageSize int,
) ([]LedgerEntry, int, error) {
	return s.repo.ListLedger(ctx, userID, page, pageSize)
}

// AdminGetSubscription looks up any user's subscription.
func (s *Service) AdminGetSubscription(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("subscription: %w", core.ErrNotFound)
		}
		return nil, err
	}
	return sub, nil
}
