// internal/receipt/receipt.go
package receipt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"baniya/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

var errNotConfigured = errors.New("receipt extractor url is not configured")

// Upload is an order screenshot as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Extractor turns a screenshot into priced line items. Implementations live
// outside this service; failures are reported, never retried here.
type Extractor interface {
	Extract(ctx context.Context, upload Upload) ([]domain.PriceComparisonItem, error)
}

// SniffImage checks the content, not the declared type, and returns the
// detected MIME type.
func SniffImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.Invalid("file", "upload is empty")
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.Invalid("file", fmt.Sprintf("expected an image, got %s", mt.String()))
	}
	return mt.String(), nil
}

type extractRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	ImageBase64 string `json:"image_base64"`
}

type extractResponse struct {
	Items []domain.PriceComparisonItem `json:"items"`
}

type HTTPExtractor struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewHTTPExtractor(url string, timeout time.Duration, log *zap.Logger) *HTTPExtractor {
	return &HTTPExtractor{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, upload Upload) ([]domain.PriceComparisonItem, error) {
	items, err := e.extract(ctx, upload)
	if err != nil {
		e.log.Error("receipt extraction failed", zap.String("filename", upload.Filename), zap.Error(err))
		return nil, domain.Upstream("receipt extraction failed", err)
	}
	return items, nil
}

func (e *HTTPExtractor) extract(ctx context.Context, upload Upload) ([]domain.PriceComparisonItem, error) {
	body, err := json.Marshal(extractRequest{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		ImageBase64: base64.StdEncoding.EncodeToString(upload.Data),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extractor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	var out extractResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode extractor response: %w", err)
	}
	if out.Items == nil {
		out.Items = []domain.PriceComparisonItem{}
	}
	return out.Items, nil
}

// Unavailable is used when no extractor is configured.
type Unavailable struct{}

func (Unavailable) Extract(context.Context, Upload) ([]domain.PriceComparisonItem, error) {
	return nil, domain.Upstream("receipt extraction is not available", errNotConfigured)
}
