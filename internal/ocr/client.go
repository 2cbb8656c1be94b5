// client.go

package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/mkraiem/facture-saas/internal/config"
	"github.com/mkraiem/facture-saas/internal/core"
)

const uploadPath = "/upload-invoice"

// Client talks to the extraction gateway. Any failure mode, network
// error, non-2xx status or an unparseable body, surfaces as
// core.ErrOcrFailure; the caller retries by re-uploading, never here.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.OCRConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Extract sends the raw document bytes as a multipart upload and
// decodes the structured extraction.
func (c *Client) Extract(
	ctx context.Context,
	filename, contentType string,
	file io.Reader,
) (*Extraction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+uploadPath, &body,
	)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extraction gateway: %w", core.ErrOcrFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"extraction gateway status %d: %w",
			resp.StatusCode,
			core.ErrOcrFailure,
		)
	}

	var extraction Extraction
	if err := json.NewDecoder(resp.Body).Decode(&extraction); err != nil {
		return nil, fmt.Errorf(
			"decode extraction response: %w",
			core.ErrOcrFailure,
		)
	}

	return &extraction, nil
}
