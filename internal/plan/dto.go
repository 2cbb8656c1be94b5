// dto.go

package plan

import (
	"time"
)

type CreatePlanRequest struct {
	Name           string   `json:"name"             validate:"required,min=1,max=100"`
	Description    *string  `json:"description"      validate:"omitempty,max=1000"`
	Price          float64  `json:"price"            validate:"gte=0"`
	TokensPerMonth int      `json:"tokens_per_month" validate:"required,gt=0"`
	DurationDays   int      `json:"duration_days"    validate:"required,gt=0"`
	Features       []string `json:"features"         validate:"omitempty,dive,min=1,max=255"`
	IsActive       *bool    `json:"is_active"`
}

type UpdatePlanStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type PlanResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	TokensPerMonth int       `json:"tokens_per_month"`
	DurationDays   int       `json:"duration_days"`
	Features       []string  `json:"features"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToPlanResponse(p *Plan) PlanResponse {
	return PlanResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		TokensPerMonth: p.TokensPerMonth,
		DurationDays:   p.DurationDays,
		Features:       []string(p.Features),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
	}
}

func ToPlanResponseList(plans []Plan) []PlanResponse {
	responses := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, ToPlanResponse(&plans[i]))
	}
	return responses
}
