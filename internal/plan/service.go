// service.go

package plan

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkraiem/facture-saas/internal/audit"
)

type Service struct {
	repo  Repository
	audit *audit.Recorder
}

func NewService(repo Repository, auditRec *audit.Recorder) *Service {
	return &Service{repo: repo, audit: auditRec}
}

func (s *Service) CreatePlan(
	ctx context.Context,
	actorID string,
	req CreatePlanRequest,
) (*Plan, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	p := &Plan{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		TokensPerMonth: req.TokensPerMonth,
		DurationDays:   req.DurationDays,
		Features:       req.Features,
		IsActive:       active,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks plan creation
	_ = s.audit.Record(ctx, actorID, audit.ActionPlanCreated, p.Name)

	return p, nil
}

func (s *Service) SetPlanStatus(
	ctx context.Context,
	actorID, planID string,
	active bool,
) (*Plan, error) {
	if err := s.repo.SetActive(ctx, planID, active); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks the status change
	_ = s.audit.Record(
		ctx,
		actorID,
		audit.ActionPlanStatusChanged,
		fmt.Sprintf("%s active=%t", p.Name, active),
	)

	return p, nil
}

func (s *Service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActivePlans(ctx context.Context) ([]Plan, error) {
	return s.repo.List(ctx, true)
}

func (s *Service) ListAllPlans(ctx context.Context) ([]Plan, error) {
	return s.repo.List(ctx, false)
}
