// service.go

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/invoice"
	"github.com/mkraiem/facture-saas/internal/ocr"
	"github.com/mkraiem/facture-saas/internal/subscription"
)

type Extractor interface {
	Extract(
		ctx context.Context,
		filename, contentType string,
		file io.Reader,
	) (*ocr.Extraction, error)
}

type Service struct {
	extractor Extractor
	store     Store
	subs      subscription.Repository
}

func NewService(
	extractor Extractor,
	store Store,
	subs subscription.Repository,
) *Service {
	return &Service{extractor: extractor, store: store, subs: subs}
}

// Ingest runs the upload pipeline: balance precondition, gateway
// extraction, then the atomic persist-and-charge. The precondition
// read keeps exhausted users from burning gateway calls; the real
// charge happens inside the storage transaction.
func (s *Service) Ingest(
	ctx context.Context,
	userID, filename, contentType string,
	file io.Reader,
) (*invoice.Invoice, error) {
	sub, err := s.subs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	if !sub.IsActive {
		return nil, fmt.Errorf(
			"ingest: subscription inactive: %w", core.ErrForbidden,
		)
	}

	if !sub.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf(
			"ingest: subscription expired: %w", core.ErrForbidden,
		)
	}

	if sub.TokensRemaining <= 0 {
		return nil, fmt.Errorf("ingest: %w", core.ErrTokensExhausted)
	}

	extraction, err := s.extractor.Extract(ctx, filename, contentType, file)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseExtraction(extraction)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(extraction)
	if err != nil {
		return nil, fmt.Errorf("ingest: encode raw payload: %w", err)
	}

	return s.store.SaveExtraction(ctx, userID, parsed, raw)
}
