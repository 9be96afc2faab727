// internal/handler/compare.go
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"baniya/internal/compare"
	"baniya/internal/domain"
	"baniya/internal/receipt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Comparer interface {
	CompareItems(ctx context.Context, items []domain.PriceComparisonItem, baseline string) (domain.PriceComparisonResult, error)
	Analyze(ctx context.Context, upload receipt.Upload) (compare.AnalyzeResponse, error)
}

type CompareHandler struct {
	svc      Comparer
	maxBytes int64
	log      *zap.Logger
}

func NewCompareHandler(svc Comparer, maxUploadBytes int64, log *zap.Logger) *CompareHandler {
	return &CompareHandler{svc: svc, maxBytes: maxUploadBytes, log: log}
}

type CompareRequest struct {
	BaselinePlatform string        `json:"baseline_platform" validate:"omitempty,platform"`
	Items            []CompareItem `json:"items" validate:"max=500,dive"`
}

type CompareItem struct {
	Name     string             `json:"name" validate:"required,notblank"`
	Quantity string             `json:"quantity"`
	Prices   map[string]float64 `json:"prices" validate:"dive,keys,platform,endkeys,gte=0"`
}

// Compare godoc
// @Summary Compare already-extracted items across platforms
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Items and optional baseline"
// @Success 200 {object} domain.PriceComparisonResult
// @Failure 400 {object} map[string]string
// @Router /api/qcommerce/compare [post]
func (h *CompareHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, h.log, "compare", err)
		return
	}

	items := make([]domain.PriceComparisonItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.PriceComparisonItem{Name: it.Name, Quantity: it.Quantity, Prices: it.Prices}
	}

	res, err := h.svc.CompareItems(c.Request.Context(), items, req.BaselinePlatform)
	if err != nil {
		writeError(c, h.log, "compare", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Analyze godoc
// @Summary Analyze an order screenshot
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Order screenshot"
// @Success 200 {object} compare.AnalyzeResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/qcommerce/analyze [post]
func (h *CompareHandler) Analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large", "code": string(domain.CodeInvalidInput)})
			return
		}
		badRequest(c, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.log, "analyze", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, h.log, "analyze", err)
		return
	}

	resp, err := h.svc.Analyze(c.Request.Context(), receipt.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(c, h.log, "analyze", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
