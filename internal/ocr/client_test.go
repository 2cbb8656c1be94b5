// client_test.go

package ocr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkraiem/facture-saas/internal/config"
	"github.com/mkraiem/facture-saas/internal/core"
)

func testClient(baseURL string) *Client {
	return NewClient(config.OCRConfig{
		BaseURL: baseURL,
		Token:   "gateway-secret",
		Timeout: 5 * time.Second,
	})
}

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/upload-invoice", r.URL.Path)
			assert.Equal(t, "Bearer gateway-secret", r.Header.Get("Authorization"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()

			assert.Equal(t, "facture.pdf", header.Filename)

			content, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.4 contenu", string(content))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"facture": {"numero": "FA-2025-0042", "devise": "TND"},
				"totaux": {"total_ttc": "1 234,56"}
			}`))
		},
	))
	defer server.Close()

	extraction, err := testClient(server.URL).Extract(
		context.Background(),
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4 contenu"),
	)
	require.NoError(t, err)
	assert.Equal(t, "FA-2025-0042", extraction.Facture.Numero)
	assert.Equal(t, "1 234,56", extraction.Totaux.TotalTTC)
}

func TestExtractGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model unavailable", http.StatusInternalServerError)
		},
	))
	defer server.Close()

	_, err := testClient(server.URL).Extract(
		context.Background(),
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrOcrFailure)
}

func TestExtractBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		},
	))
	defer server.Close()

	_, err := testClient(server.URL).Extract(
		context.Background(),
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrOcrFailure)
}

func TestExtractNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {},
	))
	server.Close()

	_, err := testClient(server.URL).Extract(
		context.Background(),
		"facture.pdf",
		"application/pdf",
		strings.NewReader("%PDF-1.4"),
	)
	require.ErrorIs(t, err, core.ErrOcrFailure)
}
