// internal/services/pdf.go
package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
)

// PDFRenderer converts rendered lease HTML into PDF bytes. The conversion
// itself happens in an external rendering service.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// HTTPPDFRenderer talks to a Gotenberg-compatible HTML-to-PDF endpoint.
type HTTPPDFRenderer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPDFRenderer(cfg config.RendererConfig) *HTTPPDFRenderer {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPPDFRenderer{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *HTTPPDFRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if r.baseURL == "" {
		return nil, newServiceError(ErrKindRenderFailure, "PDF renderer is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, wrapServiceError(ErrKindRenderFailure, err, "failed to build renderer request")
	}
	if _, err := part.Write([]byte(html)); err != nil {
		return nil, wrapServiceError(ErrKindRenderFailure, err, "failed to build renderer request")
	}
	if err := writer.Close(); err != nil {
		return nil, wrapServiceError(ErrKindRenderFailure, err, "failed to build renderer request")
	}

	url := r.baseURL + "/forms/chromium/convert/html"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, wrapServiceError(ErrKindRenderFailure, err, "failed to build renderer request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, wrapServiceError(ErrKindRenderFailure, err, "PDF renderer request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newServiceError(ErrKindRenderFailure, "PDF renderer returned status %d", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapServiceError(ErrKindRenderFailure, err, "failed to read renderer response")
	}
	if len(pdf) == 0 {
		return nil, newServiceError(ErrKindRenderFailure, "PDF renderer returned an empty document")
	}

	return pdf, nil
}

var _ PDFRenderer = (*HTTPPDFRenderer)(nil)
