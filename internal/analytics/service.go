// service.go

package analytics

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summary builds the dashboard payload. An empty userID aggregates
// across all tenants and is reserved for admin callers.
func (s *Service) Summary(
	ctx context.Context,
	userID string,
	f Filters,
) (*SummaryResponse, error) {
	stats, err := s.repo.Aggregate(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	trend, err := s.repo.Trend(ctx, userID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.RecentInvoices(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	rows := make([]InvoiceRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, toInvoiceRow(inv))
	}

	return &SummaryResponse{
		InvoiceCount:      stats.InvoiceCount,
		TotalSum:          stats.TotalSum,
		TotalAvg:          stats.TotalAvg,
		DistinctCompanies: stats.DistinctCompanies,
		Trend:             toTrendResponse(trend),
		Invoices:          rows,
	}, nil
}

// toTrendResponse leaves the change percentage null when there is no
// previous period to compare against.
func toTrendResponse(t *Trend) TrendResponse {
	resp := TrendResponse{
		CurrentTotal:  t.CurrentTotal,
		PreviousTotal: t.PreviousTotal,
	}

	if t.PreviousTotal != 0 {
		pct := (t.CurrentTotal - t.PreviousTotal) / t.PreviousTotal * 100
		resp.ChangePercent = &pct
	}

	return resp
}
