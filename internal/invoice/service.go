// service.go

package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkraiem/facture-saas/internal/audit"
	"github.com/mkraiem/facture-saas/internal/core"
)

type Service struct {
	repo  Repository
	audit *audit.Recorder
}

func NewService(repo Repository, auditRec *audit.Recorder) *Service {
	return &Service{repo: repo, audit: auditRec}
}

// authorize loads the invoice and enforces ownership. A non-owner gets
// ErrNotFound rather than ErrForbidden so the response never confirms
// that someone else's invoice ID exists.
func (s *Service) authorize(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID string,
) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && inv.UserID != requesterID {
		return nil, fmt.Errorf("get invoice: %w", core.ErrNotFound)
	}

	return inv, nil
}

func (s *Service) Get(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID string,
) (*Invoice, error) {
	inv, err := s.authorize(ctx, requesterID, isAdmin, invoiceID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines

	return inv, nil
}

// List returns the requester's own invoices. The owner scope is fixed
// here; params only narrow within it.
func (s *Service) List(
	ctx context.Context,
	requesterID string,
	params ListParams,
) ([]Invoice, int, error) {
	return s.repo.List(ctx, requesterID, params)
}

// AdminList searches across all tenants.
func (s *Service) AdminList(
	ctx context.Context,
	params ListParams,
) ([]Invoice, int, error) {
	return s.repo.List(ctx, "", params)
}

func (s *Service) Update(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID string,
	req UpdateInvoiceRequest,
) (*Invoice, error) {
	inv, err := s.authorize(ctx, requesterID, isAdmin, invoiceID)
	if err != nil {
		return nil, err
	}

	req.apply(inv)

	if err := s.repo.UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks the edit
	_ = s.audit.Record(
		ctx, requesterID, audit.ActionInvoiceEdited, invoiceID,
	)

	lines, err := s.repo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines

	return inv, nil
}

func (s *Service) Delete(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID string,
) error {
	if _, err := s.authorize(ctx, requesterID, isAdmin, invoiceID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, invoiceID)
}

func (s *Service) AddLine(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID string,
	req AddLineRequest,
) (*Line, error) {
	if _, err := s.authorize(ctx, requesterID, isAdmin, invoiceID); err != nil {
		return nil, err
	}

	description := DefaultLineDescription
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}

	quantity := DefaultLineQuantity
	if req.Quantite != nil {
		quantity = *req.Quantite
	}

	unit := DefaultLineUnit
	if req.Unite != nil && *req.Unite != "" {
		unit = *req.Unite
	}

	line := &Line{
		ID:             uuid.New().String(),
		InvoiceID:      invoiceID,
		Description:    description,
		CodeArticle:    req.CodeArticle,
		Quantite:       &quantity,
		Unite:          &unit,
		PrixUnitaireHT: req.PrixUnitaireHT,
		TauxTVA:        req.TauxTVA,
		MontantHT:      req.MontantHT,
		MontantTTC:     req.MontantTTC,
	}

	if err := s.repo.AddLine(ctx, line); err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks the edit
	_ = s.audit.Record(
		ctx, requesterID, audit.ActionInvoiceEdited, invoiceID,
	)

	return line, nil
}

func (s *Service) UpdateLine(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID, lineID string,
	req UpdateLineRequest,
) (*Line, error) {
	line, err := s.ownedLine(ctx, requesterID, isAdmin, invoiceID, lineID)
	if err != nil {
		return nil, err
	}

	req.apply(line)

	if err := s.repo.UpdateLine(ctx, line); err != nil {
		return nil, err
	}

	//nolint:errcheck // audit failure never blocks the edit
	_ = s.audit.Record(
		ctx, requesterID, audit.ActionInvoiceEdited, invoiceID,
	)

	return line, nil
}

func (s *Service) DeleteLine(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID, lineID string,
) error {
	if _, err := s.ownedLine(
		ctx, requesterID, isAdmin, invoiceID, lineID,
	); err != nil {
		return err
	}

	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		return err
	}

	//nolint:errcheck // audit failure never blocks the edit
	_ = s.audit.Record(
		ctx, requesterID, audit.ActionInvoiceEdited, invoiceID,
	)

	return nil
}

// ownedLine checks both the invoice ownership and that the line really
// belongs to the invoice in the request path.
func (s *Service) ownedLine(
	ctx context.Context,
	requesterID string,
	isAdmin bool,
	invoiceID, lineID string,
) (*Line, error) {
	if _, err := s.authorize(ctx, requesterID, isAdmin, invoiceID); err != nil {
		return nil, err
	}

	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	if line.InvoiceID != invoiceID {
		return nil, fmt.Errorf("get invoice line: %w", core.ErrNotFound)
	}

	return line, nil
}
