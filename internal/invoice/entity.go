// entity.go

package invoice

import (
	"encoding/json"
	"time"
)

// Invoice column names keep the French field names of the extraction
// payload so stored data stays recognizable against the source
// documents.
type Invoice struct {
	ID         string  `db:"id"`
	UserID     string  `db:"user_id"`
	SupplierID *string `db:"supplier_id"`
	BuyerID    *string `db:"buyer_id"`

	Numero             *string    `db:"numero"`
	DateEmission       *time.Time `db:"date_emission"`
	DateEcheance       *time.Time `db:"date_echeance"`
	CommandeRef        *string    `db:"commande_ref"`
	ConditionsPaiement *string    `db:"conditions_paiement"`
	Devise             *string    `db:"devise"`

	DocumentType *string `db:"document_type"`
	Langue       *string `db:"langue"`
	Source       *string `db:"source"`

	SousTotalHT *float64 `db:"sous_total_ht"`
	TotalTVA    *float64 `db:"total_tva"`
	Remise      *float64 `db:"remise"`
	Frais       *float64 `db:"frais"`
	TotalTTC    *float64 `db:"total_ttc"`
	DejaRegle   *float64 `db:"deja_regle"`
	ResteAPayer *float64 `db:"reste_a_payer"`

	MoyensAcceptes       *string `db:"moyens_acceptes"`
	InstructionsPaiement *string `db:"instructions_paiement"`
	ReferencePaiement    *string `db:"reference_paiement"`

	Notes     *string `db:"notes"`
	TexteBrut *string `db:"texte_brut"`

	// RawPayload holds the extraction response as received, so manual
	// edits never destroy the original reading.
	RawPayload json.RawMessage `db:"raw_payload"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Lines []Line `db:"-"`
}

type Line struct {
	ID             string    `db:"id"`
	InvoiceID      string    `db:"invoice_id"`
	Position       int       `db:"position"`
	Description    string    `db:"description"`
	CodeArticle    *string   `db:"code_article"`
	Quantite       *float64  `db:"quantite"`
	Unite          *string   `db:"unite"`
	PrixUnitaireHT *float64  `db:"prix_unitaire_ht"`
	TauxTVA        *float64  `db:"taux_tva"`
	MontantHT      *float64  `db:"montant_ht"`
	MontantTTC     *float64  `db:"montant_ttc"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// New manual lines start from the same defaults the web client shows.
const (
	DefaultLineDescription = "Nouvelle ligne"
	DefaultLineUnit        = "pcs"
	DefaultLineQuantity    = 1.0
)
