// repository.go

package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkraiem/facture-saas/internal/core"
)

const invoiceColumns = `
	i.id, i.user_id, i.supplier_id, i.buyer_id,
	i.numero, i.date_emission, i.date_echeance, i.commande_ref,
	i.conditions_paiement, i.devise,
	i.document_type, i.langue, i.source,
	i.sous_total_ht, i.total_tva, i.remise, i.frais, i.total_ttc,
	i.deja_regle, i.reste_a_payer,
	i.moyens_acceptes, i.instructions_paiement, i.reference_paiement,
	i.notes, i.texte_brut, i.raw_payload,
	i.created_at, i.updated_at`

// listJoins brings in the counterparty names and the owning user for
// free-text search. Every join is on a primary key, so no row fanout.
const listJoins = `
	LEFT JOIN companies sup ON sup.id = i.supplier_id
	LEFT JOIN companies buy ON buy.id = i.buyer_id
	LEFT JOIN users own ON own.id = i.user_id`

const lineColumns = `
	id, invoice_id, position, description, code_article, quantite,
	unite, prix_unitaire_ht, taux_tva, montant_ht, montant_ttc,
	created_at, updated_at`

type Repository interface {
	GetByID(ctx context.Context, id string) (*Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]Line, error)
	List(
		ctx context.Context,
		ownerID string,
		params ListParams,
	) ([]Invoice, int, error)
	UpdateHeader(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
	GetLine(ctx context.Context, lineID string) (*Line, error)
	AddLine(ctx context.Context, line *Line) error
	UpdateLine(ctx context.Context, line *Line) error
	DeleteLine(ctx context.Context, lineID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// InsertTx stores a freshly extracted invoice with the caller's
// transaction, so the header commits atomically with its lines and the
// token charge.
func InsertTx(ctx context.Context, db core.DBTX, inv *Invoice) error {
	query := `
		INSERT INTO invoices (
			id, user_id, supplier_id, buyer_id,
			numero, date_emission, date_echeance, commande_ref,
			conditions_paiement, devise,
			document_type, langue, source,
			sous_total_ht, total_tva, remise, frais, total_ttc,
			deja_regle, reste_a_payer,
			moyens_acceptes, instructions_paiement, reference_paiement,
			notes, texte_brut, raw_payload
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26
		)
		RETURNING created_at, updated_at`

	err := db.GetContext(ctx, inv, query,
		inv.ID, inv.UserID, inv.SupplierID, inv.BuyerID,
		inv.Numero, inv.DateEmission, inv.DateEcheance, inv.CommandeRef,
		inv.ConditionsPaiement, inv.Devise,
		inv.DocumentType, inv.Langue, inv.Source,
		inv.SousTotalHT, inv.TotalTVA, inv.Remise, inv.Frais, inv.TotalTTC,
		inv.DejaRegle, inv.ResteAPayer,
		inv.MoyensAcceptes, inv.InstructionsPaiement, inv.ReferencePaiement,
		inv.Notes, inv.TexteBrut, inv.RawPayload,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	return nil
}

// InsertLinesTx bulk-inserts extraction lines in document order.
func InsertLinesTx(
	ctx context.Context,
	db core.DBTX,
	invoiceID string,
	lines []Line,
) error {
	query := `
		INSERT INTO invoice_lines (
			id, invoice_id, position, description, code_article, quantite,
			unite, prix_unitaire_ht, taux_tva, montant_ht, montant_ttc
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	for i := range lines {
		line := &lines[i]
		line.ID = uuid.New().String()
		line.InvoiceID = invoiceID
		line.Position = i + 1

		if _, err := db.ExecContext(ctx, query,
			line.ID, line.InvoiceID, line.Position,
			line.Description, line.CodeArticle, line.Quantite,
			line.Unite, line.PrixUnitaireHT, line.TauxTVA,
			line.MontantHT, line.MontantTTC,
		); err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Invoice, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		WHERE i.id = $1`, invoiceColumns)

	var inv Invoice
	err := r.db.GetContext(ctx, &inv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get invoice: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return &inv, nil
}

func (r *repository) GetLines(
	ctx context.Context,
	invoiceID string,
) ([]Line, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY position ASC`, lineColumns)

	var lines []Line
	if err := r.db.SelectContext(ctx, &lines, query, invoiceID); err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}

	return lines, nil
}

func (r *repository) List(
	ctx context.Context,
	ownerID string,
	params ListParams,
) ([]Invoice, int, error) {
	params.Normalize()

	whereClause, args := params.compile(ownerID)

	// The count runs against the same predicate as the page query so
	// totals always agree with the rows.
	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM invoices i%s WHERE %s",
		listJoins, whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	argIdx := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i%s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		invoiceColumns, listJoins, whereClause,
		params.OrderBy(), argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var invoices []Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}

	return invoices, total, nil
}

func (r *repository) UpdateHeader(ctx context.Context, inv *Invoice) error {
	query := `
		UPDATE invoices
		SET numero = $2, date_emission = $3, date_echeance = $4,
		    commande_ref = $5, conditions_paiement = $6, devise = $7,
		    sous_total_ht = $8, total_tva = $9, remise = $10, frais = $11,
		    total_ttc = $12, deja_regle = $13, reste_a_payer = $14,
		    notes = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &inv.UpdatedAt, query,
		inv.ID,
		inv.Numero, inv.DateEmission, inv.DateEcheance,
		inv.CommandeRef, inv.ConditionsPaiement, inv.Devise,
		inv.SousTotalHT, inv.TotalTVA, inv.Remise, inv.Frais,
		inv.TotalTTC, inv.DejaRegle, inv.ResteAPayer,
		inv.Notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update invoice: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invoices WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete invoice: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetLine(
	ctx context.Context,
	lineID string,
) (*Line, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM invoice_lines
		WHERE id = $1`, lineColumns)

	var line Line
	err := r.db.GetContext(ctx, &line, query, lineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get invoice line: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice line: %w", err)
	}

	return &line, nil
}

func (r *repository) AddLine(ctx context.Context, line *Line) error {
	query := `
		INSERT INTO invoice_lines (
			id, invoice_id, position, description, code_article, quantite,
			unite, prix_unitaire_ht, taux_tva, montant_ht, montant_ttc
		)
		SELECT $1, $2,
		       COALESCE(MAX(position), 0) + 1,
		       $3, $4, $5, $6, $7, $8, $9, $10
		FROM invoice_lines
		WHERE invoice_id = $2
		RETURNING position, created_at, updated_at`

	err := r.db.GetContext(ctx, line, query,
		line.ID, line.InvoiceID,
		line.Description, line.CodeArticle, line.Quantite,
		line.Unite, line.PrixUnitaireHT, line.TauxTVA,
		line.MontantHT, line.MontantTTC,
	)
	if err != nil {
		return fmt.Errorf("add invoice line: %w", err)
	}

	return nil
}

func (r *repository) UpdateLine(ctx context.Context, line *Line) error {
	query := `
		UPDATE invoice_lines
		SET description = $2, code_article = $3, quantite = $4, unite = $5,
		    prix_unitaire_ht = $6, taux_tva = $7, montant_ht = $8,
		    montant_ttc = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &line.UpdatedAt, query,
		line.ID,
		line.Description, line.CodeArticle, line.Quantite, line.Unite,
		line.PrixUnitaireHT, line.TauxTVA, line.MontantHT, line.MontantTTC,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update invoice line: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update invoice line: %w", err)
	}

	return nil
}

func (r *repository) DeleteLine(ctx context.Context, lineID string) error {
	query := `DELETE FROM invoice_lines WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("delete invoice line: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete invoice line: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete invoice line: %w", core.ErrNotFound)
	}

	return nil
}
