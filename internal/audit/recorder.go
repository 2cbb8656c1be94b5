// recorder.go

package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkraiem/facture-saas/internal/core"
)

// Recorder appends audit entries outside any caller transaction.
// Event recording that must commit or roll back with a business write
// goes through RecordTx with the caller's transaction instead.
type Recorder struct {
	db core.DBTX
}

func NewRecorder(db core.DBTX) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(
	ctx context.Context,
	userID, action, details string,
) error {
	return RecordTx(ctx, r.db, userID, action, details)
}

func RecordTx(
	ctx context.Context,
	db core.DBTX,
	userID, action, details string,
) error {
	query := `
		INSERT INTO audit_log (id, user_id, action, details)
		VALUES ($1, $2, $3, $4)`

	var uid *string
	if userID != "" {
		uid = &userID
	}

	var det *string
	if details != "" {
		det = &details
	}

	if _, err := db.ExecContext(ctx, query,
		uuid.New().String(), uid, action, det,
	); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	return nil
}
