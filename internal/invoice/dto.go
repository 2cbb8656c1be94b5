// dto.go

package invoice

import (
	"time"
)

const dateLayout = "2006-01-02"

type UpdateInvoiceRequest struct {
	Numero             *string  `json:"numero"              validate:"omitempty,max=100"`
	DateEmission       *string  `json:"date_emission"       validate:"omitempty,datetime=2006-01-02"`
	DateEcheance       *string  `json:"date_echeance"       validate:"omitempty,datetime=2006-01-02"`
	CommandeRef        *string  `json:"commande_ref"        validate:"omitempty,max=100"`
	ConditionsPaiement *string  `json:"conditions_paiement" validate:"omitempty,max=500"`
	Devise             *string  `json:"devise"              validate:"omitempty,max=10"`
	SousTotalHT        *float64 `json:"sous_total_ht"`
	TotalTVA           *float64 `json:"total_tva"`
	Remise             *float64 `json:"remise"`
	Frais              *float64 `json:"frais"`
	TotalTTC           *float64 `json:"total_ttc"`
	DejaRegle          *float64 `json:"deja_regle"`
	ResteAPayer        *float64 `json:"reste_a_payer"`
	Notes              *string  `json:"notes"               validate:"omitempty,max=5000"`
}

// apply copies only the provided fields onto the invoice. Dates are
// pre-validated by the handler, so a parse failure leaves the field
// untouched.
func (r UpdateInvoiceRequest) apply(inv *Invoice) {
	if r.Numero != nil {
		inv.Numero = r.Numero
	}
	if r.DateEmission != nil {
		if t, err := time.Parse(dateLayout, *r.DateEmission); err == nil {
			inv.DateEmission = &t
		}
	}
	if r.DateEcheance != nil {
		if t, err := time.Parse(dateLayout, *r.DateEcheance); err == nil {
			inv.DateEcheance = &t
		}
	}
	if r.CommandeRef != nil {
		inv.CommandeRef = r.CommandeRef
	}
	if r.ConditionsPaiement != nil {
		inv.ConditionsPaiement = r.ConditionsPaiement
	}
	if r.Devise != nil {
		inv.Devise = r.Devise
	}
	if r.SousTotalHT != nil {
		inv.SousTotalHT = r.SousTotalHT
	}
	if r.TotalTVA != nil {
		inv.TotalTVA = r.TotalTVA
	}
	if r.Remise != nil {
		inv.Remise = r.Remise
	}
	if r.Frais != nil {
		inv.Frais = r.Frais
	}
	if r.TotalTTC != nil {
		inv.TotalTTC = r.TotalTTC
	}
	if r.DejaRegle != nil {
		inv.DejaRegle = r.DejaRegle
	}
	if r.ResteAPayer != nil {
		inv.ResteAPayer = r.ResteAPayer
	}
	if r.Notes != nil {
		inv.Notes = r.Notes
	}
}

type AddLineRequest struct {
	Description    *string  `json:"description"      validate:"omitempty,max=1000"`
	CodeArticle    *string  `json:"code_article"     validate:"omitempty,max=100"`
	Quantite       *float64 `json:"quantite"         validate:"omitempty,gt=0"`
	Unite          *string  `json:"unite"            validate:"omitempty,max=50"`
	PrixUnitaireHT *float64 `json:"prix_unitaire_ht"`
	TauxTVA        *float64 `json:"taux_tva"`
	MontantHT      *float64 `json:"montant_ht"`
	MontantTTC     *float64 `json:"montant_ttc"`
}

type UpdateLineRequest struct {
	Description    *string  `json:"description"      validate:"omitempty,min=1,max=1000"`
	CodeArticle    *string  `json:"code_article"     validate:"omitempty,max=100"`
	Quantite       *float64 `json:"quantite"         validate:"omitempty,gt=0"`
	Unite          *string  `json:"unite"            validate:"omitempty,max=50"`
	PrixUnitaireHT *float64 `json:"prix_unitaire_ht"`
	TauxTVA        *float64 `json:"taux_tva"`
	MontantHT      *float64 `json:"montant_ht"`
	MontantTTC     *float64 `json:"montant_ttc"`
}

func (r UpdateLineRequest) apply(line *Line) {
	if r.Description != nil {
		line.Description = *r.Description
	}
	if r.CodeArticle != nil {
		line.CodeArticle = r.CodeArticle
	}
	if r.Quantite != nil {
		line.Quantite = r.Quantite
	}
	if r.Unite != nil {
		line.Unite = r.Unite
	}
	if r.PrixUnitaireHT != nil {
		line.PrixUnitaireHT = r.PrixUnitaireHT
	}
	if r.TauxTVA != nil {
		line.TauxTVA = r.TauxTVA
	}
	if r.MontantHT != nil {
		line.MontantHT = r.MontantHT
	}
	if r.MontantTTC != nil {
		line.MontantTTC = r.MontantTTC
	}
}

type LineResponse struct {
	ID             string   `json:"id"`
	Position       int      `json:"position"`
	Description    string   `json:"description"`
	CodeArticle    *string  `json:"code_article,omitempty"`
	Quantite       *float64 `json:"quantite,omitempty"`
	Unite          *string  `json:"unite,omitempty"`
	PrixUnitaireHT *float64 `json:"prix_unitaire_ht,omitempty"`
	TauxTVA        *float64 `json:"taux_tva,omitempty"`
	MontantHT      *float64 `json:"montant_ht,omitempty"`
	MontantTTC     *float64 `json:"montant_ttc,omitempty"`
}

type InvoiceResponse struct {
	ID         string  `json:"id"`
	SupplierID *string `json:"supplier_id,omitempty"`
	BuyerID    *string `json:"buyer_id,omitempty"`

	Numero             *string `json:"numero,omitempty"`
	DateEmission       *string `json:"date_emission,omitempty"`
	DateEcheance       *string `json:"date_echeance,omitempty"`
	CommandeRef        *string `json:"commande_ref,omitempty"`
	ConditionsPaiement *string `json:"conditions_paiement,omitempty"`
	Devise             *string `json:"devise,omitempty"`

	DocumentType *string `json:"document_type,omitempty"`
	Langue       *string `json:"langue,omitempty"`
	Source       *string `json:"source,omitempty"`

	SousTotalHT *float64 `json:"sous_total_ht,omitempty"`
	TotalTVA    *float64 `json:"total_tva,omitempty"`
	Remise      *float64 `json:"remise,omitempty"`
	Frais       *float64 `json:"frais,omitempty"`
	TotalTTC    *float64 `json:"total_ttc,omitempty"`
	DejaRegle   *float64 `json:"deja_regle,omitempty"`
	ResteAPayer *float64 `json:"reste_a_payer,omitempty"`

	MoyensAcceptes       *string `json:"moyens_acceptes,omitempty"`
	InstructionsPaiement *string `json:"instructions_paiement,omitempty"`
	ReferencePaiement    *string `json:"reference_paiement,omitempty"`

	Notes *string `json:"notes,omitempty"`

	Lines []LineResponse `json:"lines,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func ToLineResponse(l *Line) LineResponse {
	return LineResponse{
		ID:             l.ID,
		Position:       l.Position,
		Description:    l.Description,
		CodeArticle:    l.CodeArticle,
		Quantite:       l.Quantite,
		Unite:          l.Unite,
		PrixUnitaireHT: l.PrixUnitaireHT,
		TauxTVA:        l.TauxTVA,
		MontantHT:      l.MontantHT,
		MontantTTC:     l.MontantTTC,
	}
}

func ToInvoiceResponse(inv *Invoice) InvoiceResponse {
	lines := make([]LineResponse, 0, len(inv.Lines))
	for i := range inv.Lines {
		lines = append(lines, ToLineResponse(&inv.Lines[i]))
	}

	return InvoiceResponse{
		ID:                   inv.ID,
		SupplierID:           inv.SupplierID,
		BuyerID:              inv.BuyerID,
		Numero:               inv.Numero,
		DateEmission:         formatDate(inv.DateEmission),
		DateEcheance:         formatDate(inv.DateEcheance),
		CommandeRef:          inv.CommandeRef,
		ConditionsPaiement:   inv.ConditionsPaiement,
		Devise:               inv.Devise,
		DocumentType:         inv.DocumentType,
		Langue:               inv.Langue,
		Source:               inv.Source,
		SousTotalHT:          inv.SousTotalHT,
		TotalTVA:             inv.TotalTVA,
		Remise:               inv.Remise,
		Frais:                inv.Frais,
		TotalTTC:             inv.TotalTTC,
		DejaRegle:            inv.DejaRegle,
		ResteAPayer:          inv.ResteAPayer,
		MoyensAcceptes:       inv.MoyensAcceptes,
		InstructionsPaiement: inv.InstructionsPaiement,
		ReferencePaiement:    inv.ReferencePaiement,
		Notes:                inv.Notes,
		Lines:                lines,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
}

func ToInvoiceResponseList(invoices []Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses
}
