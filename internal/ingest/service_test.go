// service_test.go

package ingest

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/invoice"
	"github.com/mkraiem/facture-saas/internal/ocr"
	"github.com/mkraiem/facture-saas/internal/subscription"
)

type stubExtractor struct {
	extraction *ocr.Extraction
	err        error
	calls      int
}

func (s *stubExtractor) Extract(
	_ context.Context,
	_, _ string,
	_ io.Reader,
) (*ocr.Extraction, error) {
	s.calls++
	return s.extraction, s.err
}

type stubStore struct {
	saved   *invoice.Invoice
	err     error
	calls   int
	lastRaw json.RawMessage
}

func (s *stubStore) SaveExtraction(
	_ context.Context,
	_ string,
	_ *Parsed,
	raw json.RawMessage,
) (*invoice.Invoice, error) {
	s.calls++
	s.lastRaw = raw
	return s.saved, s.err
}

type stubSubs struct {
	sub *subscription.Subscription
	err error
}

func (s *stubSubs) GetByUserID(
	_ context.Context,
	_ string,
) (*subscription.Subscription, error) {
	return s.sub, s.err
}

func (s *stubSubs) ChangePlan(
	_ context.Context,
	_, _ string,
	_, _ int,
) (*subscription.Subscription, error) {
	panic("unexpected call")
}

func (s *stubSubs) SetActive(_ context.Context, _ string, _ bool) error {
	panic("unexpected call")
}

func (s *stubSubs) ListLedger(
	_ context.Context,
	_ string,
	_, _ int,
) ([]subscription.LedgerEntry, int, error) {
	panic("unexpected call")
}

func activeSub(tokens int) *subscription.Subscription {
	return &subscription.Subscription{
		ID:              "sub-1",
		UserID:          "user-1",
		PlanID:          "plan-1",
		TokensRemaining: tokens,
		IsActive:        true,
		ExpiresAt:       time.Now().Add(24 * time.Hour),
	}
}

func TestIngestHappyPath(t *testing.T) {
	extractor := &stubExtractor{extraction: sampleExtraction()}
	store := &stubStore{saved: &invoice.Invoice{ID: "inv-1"}}
	svc := NewService(extractor, store, &stubSubs{sub: activeSub(3)})

	inv, err := svc.Ingest(
		context.Background(),
		"user-1",
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.ID)
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, store.calls)

	// The stored payload is the extraction verbatim.
	var roundTrip ocr.Extraction
	require.NoError(t, json.Unmarshal(store.lastRaw, &roundTrip))
	assert.Equal(t, "FA-2025-0042", roundTrip.Facture.Numero)
}

func TestIngestTokensExhausted(t *testing.T) {
	extractor := &stubExtractor{extraction: sampleExtraction()}
	store := &stubStore{}
	svc := NewService(extractor, store, &stubSubs{sub: activeSub(0)})

	_, err := svc.Ingest(
		context.Background(),
		"user-1",
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrTokensExhausted)

	// No gateway call is spent on a user who cannot afford it.
	assert.Zero(t, extractor.calls)
	assert.Zero(t, store.calls)
}

func TestIngestInactiveSubscription(t *testing.T) {
	sub := activeSub(5)
	sub.IsActive = false

	extractor := &stubExtractor{extraction: sampleExtraction()}
	store := &stubStore{}
	svc := NewService(extractor, store, &stubSubs{sub: sub})

	_, err := svc.Ingest(
		context.Background(),
		"user-1",
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Zero(t, extractor.calls)
}

func TestIngestExpiredSubscription(t *testing.T) {
	sub := activeSub(5)
	sub.ExpiresAt = time.Now().Add(-time.Hour)

	extractor := &stubExtractor{extraction: sampleExtraction()}
	store := &stubStore{}
	svc := NewService(extractor, store, &stubSubs{sub: sub})

	_, err := svc.Ingest(
		context.Background(),
		"user-1",
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Zero(t, extractor.calls)
}

func TestIngestGatewayFailure(t *testing.T) {
	extractor := &stubExtractor{err: core.ErrOcrFailure}
	store := &stubStore{}
	svc := NewService(extractor, store, &stubSubs{sub: activeSub(5)})

	_, err := svc.Ingest(
		context.Background(),
		"user-1",
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrOcrFailure)

	// Nothing persisted and no token charged when extraction fails.
	assert.Zero(t, store.calls)
}

func TestIngestMalformedFieldAbortsPersist(t *testing.T) {
	ext := sampleExtraction()
	ext.Totaux.TotalTTC = "deux mille"

	extractor := &stubExtractor{extraction: ext}
	store := &stubStore{}
	svc := NewService(extractor, store, &stubSubs{sub: activeSub(5)})

	_, err := svc.Ingest(
		context.Background(),
		"user-1",
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrMalformedOcrField)
	assert.Zero(t, store.calls)
}
