// parser_test.go

package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/facture-saas/internal/company"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/ocr"
)

func sampleExtraction() *ocr.Extraction {
	return &ocr.Extraction{
		Document: ocr.Document{
			Type:   "FACTURE",
			Langue: "fr",
			Source: "pdf",
		},
		Fournisseur: ocr.Partie{
			Nom:                 "Société Générale de Fournitures",
			Adresse:             "12 rue de la Paix, Tunis",
			IdentifiantsFiscaux: "1234567A",
			Email:               "contact@sgf.tn",
			Telephone:           "Non spécifié",
		},
		Acheteur: ocr.Partie{
			Nom: "Client SARL",
		},
		Facture: ocr.Facture{
			Numero:       "FA-2025-0042",
			DateEmission: "2025-03-15T00:00:00.000Z",
			DateEcheance: "15/04/2025",
			Devise:       "TND",
		},
		Lignes: []ocr.Ligne{
			{
				Description:    "Prestation de conseil",
				Quantite:       "2",
				Unite:          "jour",
				PrixUnitaireHT: "1 200,50",
				TauxTVA:        "19%",
				MontantHT:      "2401",
				MontantTTC:     "2857,19",
			},
		},
		Totaux: ocr.Totaux{
			SousTotalHT: "2401",
			TotalTVA:    "456,19",
			Remise:      "Non spécifié",
			Frais:       "",
			TotalTTC:    "2 857,19 €",
			DejaRegle:   "0",
			ResteAPayer: "2857,19",
		},
		Paiement: ocr.Paiement{
			MoyensAcceptes: "virement",
		},
		Notes:     "Non spécifié",
		TexteBrut: "FACTURE FA-2025-0042 ...",
	}
}

func TestParseExtraction(t *testing.T) {
	parsed, err := ParseExtraction(sampleExtraction())
	require.NoError(t, err)

	inv := parsed.Invoice
	require.NotNil(t, inv.Numero)
	assert.Equal(t, "FA-2025-0042", *inv.Numero)

	require.NotNil(t, inv.DateEmission)
	assert.Equal(
		t,
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		*inv.DateEmission,
	)

	// 15/04/2025 comes in day-first.
	require.NotNil(t, inv.DateEcheance)
	assert.Equal(
		t,
		time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		*inv.DateEcheance,
	)

	require.NotNil(t, inv.TotalTTC)
	assert.InDelta(t, 2857.19, *inv.TotalTTC, 0.001)

	// Sentinel and blank both map to NULL, not zero.
	assert.Nil(t, inv.Remise)
	assert.Nil(t, inv.Frais)
	assert.Nil(t, inv.Notes)

	// A literal zero stays zero.
	require.NotNil(t, inv.DejaRegle)
	assert.Zero(t, *inv.DejaRegle)

	require.Len(t, parsed.Lines, 1)
	line := parsed.Lines[0]
	assert.Equal(t, "Prestation de conseil", line.Description)
	require.NotNil(t, line.PrixUnitaireHT)
	assert.InDelta(t, 1200.50, *line.PrixUnitaireHT, 0.001)
	require.NotNil(t, line.TauxTVA)
	assert.InDelta(t, 19, *line.TauxTVA, 0.001)

	assert.Equal(t, "Société Générale de Fournitures", parsed.Supplier.Name)
	assert.Equal(t, company.TypeSupplier, parsed.Supplier.Type)
	assert.Nil(t, parsed.Supplier.Phone)

	assert.Equal(t, "Client SARL", parsed.Buyer.Name)
	assert.Equal(t, company.TypeClient, parsed.Buyer.Type)
}

func TestParseExtractionMalformedAmount(t *testing.T) {
	ext := sampleExtraction()
	ext.Totaux.TotalTTC = "deux mille"

	_, err := ParseExtraction(ext)
	require.ErrorIs(t, err, core.ErrMalformedOcrField)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "totaux.total_ttc")
}

func TestParseExtractionMalformedDate(t *testing.T) {
	ext := sampleExtraction()
	ext.Facture.DateEmission = "mars 2025"

	_, err := ParseExtraction(ext)
	require.ErrorIs(t, err, core.ErrMalformedOcrField)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "facture.date_emission")
}

func TestParseExtractionMalformedLineField(t *testing.T) {
	ext := sampleExtraction()
	ext.Lignes[0].Quantite = "beaucoup"

	_, err := ParseExtraction(ext)
	require.ErrorIs(t, err, core.ErrMalformedOcrField)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "lignes[0].quantite")
}

func TestParseExtractionMissingParty(t *testing.T) {
	ext := sampleExtraction()
	ext.Acheteur = ocr.Partie{Nom: "Non spécifié"}

	parsed, err := ParseExtraction(ext)
	require.NoError(t, err)
	assert.Empty(t, parsed.Buyer.Name)
}

func TestParseExtractionLineDefaults(t *testing.T) {
	ext := sampleExtraction()
	ext.Lignes[0].Description = "Non spécifié"

	parsed, err := ParseExtraction(ext)
	require.NoError(t, err)
	require.Len(t, parsed.Lines, 1)
	assert.Equal(t, "Nouvelle ligne", parsed.Lines[0].Description)
}

func TestOptAmountFrenchFormats(t *testing.T) {
	cases := map[string]float64{
		"1234.56":    1234.56,
		"1234,56":    1234.56,
		"1 234,56":   1234.56,
		"2 857,19 €": 2857.19,
		"19%":        19,
		"-42":        -42,
	}

	for input, want := range cases {
		got, err := optAmount("f", input)
		require.NoError(t, err, "input %q", input)
		require.NotNil(t, got, "input %q", input)
		assert.InDelta(t, want, *got, 0.001, "input %q", input)
	}
}

func TestOptDateLayouts(t *testing.T) {
	want := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{
		"2025-01-31T00:00:00.000Z",
		"2025-01-31T00:00:00Z",
		"2025-01-31",
		"31/01/2025",
		"31-01-2025",
		"31.01.2025",
	} {
		got, err := optDate("f", input)
		require.NoError(t, err, "input %q", input)
		require.NotNil(t, got, "input %q", input)
		assert.Equal(t, want, *got, "input %q", input)
	}
}
