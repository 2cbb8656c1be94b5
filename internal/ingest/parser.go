// parser.go

package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mkraiem/facture-saas/internal/company"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/invoice"
	"github.com/mkraiem/facture-saas/internal/ocr"
)

// Sentinel the gateway emits for fields absent from the document.
// It maps to NULL, never to zero: a missing amount and an amount of
// zero are different facts.
const sentinel = "Non spécifié"

// The gateway normalizes dates to ISO-8601 timestamps
// ("2025-03-15T00:00:00.000Z"); the short layouts catch values copied
// through from the document text verbatim.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// Parsed is the extraction mapped onto storage types. Company upserts
// with an empty Name mean the document did not identify that party.
type Parsed struct {
	Invoice  invoice.Invoice
	Lines    []invoice.Line
	Supplier company.Upsert
	Buyer    company.Upsert
}

// ParseExtraction maps the gateway payload onto relational rows. The
// first unusable numeric or date value aborts the whole mapping, so a
// partially stored invoice can never result.
func ParseExtraction(ext *ocr.Extraction) (*Parsed, error) {
	p := &Parsed{}

	p.Invoice.DocumentType = optText(ext.Document.Type)
	p.Invoice.Langue = optText(ext.Document.Langue)
	p.Invoice.Source = optText(ext.Document.Source)

	p.Invoice.Numero = optText(ext.Facture.Numero)
	p.Invoice.CommandeRef = optText(ext.Facture.CommandeRef)
	p.Invoice.ConditionsPaiement = optText(ext.Facture.ConditionsPaiement)
	p.Invoice.Devise = optText(ext.Facture.Devise)

	var err error
	if p.Invoice.DateEmission, err = optDate(
		"facture.date_emission", ext.Facture.DateEmission,
	); err != nil {
		return nil, err
	}
	if p.Invoice.DateEcheance, err = optDate(
		"facture.date_echeance", ext.Facture.DateEcheance,
	); err != nil {
		return nil, err
	}

	if p.Invoice.SousTotalHT, err = optAmount(
		"totaux.sous_total_ht", ext.Totaux.SousTotalHT,
	); err != nil {
		return nil, err
	}
	if p.Invoice.TotalTVA, err = optAmount(
		"totaux.total_tva", ext.Totaux.TotalTVA,
	); err != nil {
		return nil, err
	}
	if p.Invoice.Remise, err = optAmount(
		"totaux.remise", ext.Totaux.Remise,
	); err != nil {
		return nil, err
	}
	if p.Invoice.Frais, err = optAmount(
		"totaux.frais", ext.Totaux.Frais,
	); err != nil {
		return nil, err
	}
	if p.Invoice.TotalTTC, err = optAmount(
		"totaux.total_ttc", ext.Totaux.TotalTTC,
	); err != nil {
		return nil, err
	}
	if p.Invoice.DejaRegle, err = optAmount(
		"totaux.deja_regle", ext.Totaux.DejaRegle,
	); err != nil {
		return nil, err
	}
	if p.Invoice.ResteAPayer, err = optAmount(
		"totaux.reste_a_payer", ext.Totaux.ResteAPayer,
	); err != nil {
		return nil, err
	}

	p.Invoice.MoyensAcceptes = optText(ext.Paiement.MoyensAcceptes)
	p.Invoice.InstructionsPaiement = optText(ext.Paiement.Instructions)
	p.Invoice.ReferencePaiement = optText(ext.Paiement.ReferencePaiement)

	p.Invoice.Notes = optText(ext.Notes)
	p.Invoice.TexteBrut = optText(ext.TexteBrut)

	lines, err := parseLines(ext.Lignes)
	if err != nil {
		return nil, err
	}
	p.Lines = lines

	p.Supplier = parseParty(ext.Fournisseur, company.TypeSupplier)
	p.Buyer = parseParty(ext.Acheteur, company.TypeClient)

	return p, nil
}

func parseLines(lignes []ocr.Ligne) ([]invoice.Line, error) {
	lines := make([]invoice.Line, 0, len(lignes))

	for i, l := range lignes {
		field := func(name string) string {
			return fmt.Sprintf("lignes[%d].%s", i, name)
		}

		description := invoice.DefaultLineDescription
		if d := optText(l.Description); d != nil {
			description = *d
		}

		line := invoice.Line{
			Description: description,
			CodeArticle: optText(l.CodeArticle),
			Unite:       optText(l.Unite),
		}

		var err error
		if line.Quantite, err = optAmount(
			field("quantite"), l.Quantite,
		); err != nil {
			return nil, err
		}
		if line.PrixUnitaireHT, err = optAmount(
			field("prix_unitaire_ht"), l.PrixUnitaireHT,
		); err != nil {
			return nil, err
		}
		if line.TauxTVA, err = optAmount(
			field("taux_tva"), l.TauxTVA,
		); err != nil {
			return nil, err
		}
		if line.MontantHT, err = optAmount(
			field("montant_ht"), l.MontantHT,
		); err != nil {
			return nil, err
		}
		if line.MontantTTC, err = optAmount(
			field("montant_ttc"), l.MontantTTC,
		); err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func parseParty(p ocr.Partie, companyType string) company.Upsert {
	name := optText(p.Nom)
	if name == nil {
		return company.Upsert{}
	}

	return company.Upsert{
		Name:     *name,
		Type:     companyType,
		Address:  optText(p.Adresse),
		TaxID:    optText(p.IdentifiantsFiscaux),
		Email:    optText(p.Email),
		Phone:    optText(p.Telephone),
		Website:  optText(p.SiteWeb),
		IBAN:     optText(p.IBAN),
		BICSwift: optText(p.BICSwift),
	}
}

// optText maps the sentinel and blanks to NULL.
func optText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == sentinel {
		return nil
	}
	return &s
}

// optAmount applies the numeric policy: sentinel or blank is NULL,
// anything else must parse as a number after French formatting is
// normalized away.
func optAmount(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == sentinel {
		return nil, nil
	}

	normalized := strings.NewReplacer(
		" ", "",
		" ", "",
		",", ".",
		"€", "",
		"%", "",
	).Replace(s)

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil, core.MalformedOcrFieldError(field)
	}

	return &v, nil
}

// optDate follows the same policy as optAmount for date fields.
func optDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == sentinel {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, core.MalformedOcrFieldError(field)
}
