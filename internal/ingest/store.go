// store.go

package ingest

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkraiem/facture-saas/internal/audit"
	"github.com/mkraiem/facture-saas/internal/company"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/invoice"
	"github.com/mkraiem/facture-saas/internal/subscription"
)

type Store interface {
	SaveExtraction(
		ctx context.Context,
		userID string,
		parsed *Parsed,
		raw json.RawMessage,
	) (*invoice.Invoice, error)
}

type store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &store{db: db}
}

// SaveExtraction commits the companies, the invoice with its lines,
// the guarded token decrement, the ledger row and the audit entry as
// one transaction. If the balance hits zero concurrently, everything
// rolls back and the user keeps the token.
func (s *store) SaveExtraction(
	ctx context.Context,
	userID string,
	parsed *Parsed,
	raw json.RawMessage,
) (*invoice.Invoice, error) {
	inv := parsed.Invoice
	inv.ID = uuid.New().String()
	inv.UserID = userID
	inv.RawPayload = raw

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		companies := company.NewRepository(tx)

		if parsed.Supplier.Name != "" {
			supplierID, err := companies.UpsertByName(ctx, parsed.Supplier)
			if err != nil {
				return err
			}
			inv.SupplierID = &supplierID
		}

		if parsed.Buyer.Name != "" {
			buyerID, err := companies.UpsertByName(ctx, parsed.Buyer)
			if err != nil {
				return err
			}
			inv.BuyerID = &buyerID
		}

		if err := invoice.InsertTx(ctx, tx, &inv); err != nil {
			return err
		}

		if err := invoice.InsertLinesTx(
			ctx, tx, inv.ID, parsed.Lines,
		); err != nil {
			return err
		}
		inv.Lines = parsed.Lines

		if _, err := subscription.ConsumeTokenTx(
			ctx, tx, userID, &inv.ID,
		); err != nil {
			return err
		}

		return audit.RecordTx(
			ctx, tx, userID, audit.ActionInvoiceUpload, inv.ID,
		)
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}
