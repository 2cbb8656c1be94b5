// dto.go

package analytics

import (
	"time"

	"github.com/mkraiem/facture-saas/internal/invoice"
)

type SummaryResponse struct {
	InvoiceCount      int     `json:"invoice_count"`
	TotalSum          float64 `json:"total_sum"`
	TotalAvg          float64 `json:"total_avg"`
	DistinctCompanies int     `json:"distinct_companies"`

	Trend TrendResponse `json:"trend"`

	Invoices []InvoiceRow `json:"invoices"`
}

type TrendResponse struct {
	CurrentTotal  float64  `json:"current_total"`
	PreviousTotal float64  `json:"previous_total"`
	ChangePercent *float64 `json:"change_percent"`
}

type InvoiceRow struct {
	ID           string     `json:"id"`
	Numero       *string    `json:"numero"`
	SupplierID   *string    `json:"supplier_id"`
	BuyerID      *string    `json:"buyer_id"`
	DateEmission *time.Time `json:"date_emission"`
	Devise       *string    `json:"devise"`
	TotalTTC     *float64   `json:"total_ttc"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toInvoiceRow(inv invoice.Invoice) InvoiceRow {
	return InvoiceRow{
		ID:           inv.ID,
		Numero:       inv.Numero,
		SupplierID:   inv.SupplierID,
		BuyerID:      inv.BuyerID,
		DateEmission: inv.DateEmission,
		Devise:       inv.Devise,
		TotalTTC:     inv.TotalTTC,
		CreatedAt:    inv.CreatedAt,
	}
}
