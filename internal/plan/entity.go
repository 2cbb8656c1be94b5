// entity.go

package plan

import (
	"time"

	"github.com/lib/pq"
)

type Plan struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Description    *string        `db:"description"`
	Price          float64        `db:"price"`
	TokensPerMonth int            `db:"tokens_per_month"`
	DurationDays   int            `db:"duration_days"`
	Features       pq.StringArray `db:"features"`
	IsActive       bool           `db:"is_active"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// DefaultPlanName is the plan every new registration starts on.
const DefaultPlanName = "Basic"
