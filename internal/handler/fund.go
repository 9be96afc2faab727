// internal/handler/fund.go
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"baniya/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultTransactionsLimit = 20

type Fund interface {
	Get(ctx context.Context) (domain.FundSummary, error)
	Add(ctx context.Context, amount float64) (domain.FundSummary, error)
	Transactions(ctx context.Context, limit int) ([]domain.FundTransaction, error)
}

type FundHandler struct {
	fund Fund
	log  *zap.Logger
}

func NewFundHandler(fund Fund, log *zap.Logger) *FundHandler {
	return &FundHandler{fund: fund, log: log}
}

// Get godoc
// @Summary Current savings fund
// @Success 200 {object} domain.FundSummary
// @Router /api/shaadi-fund [get]
func (h *FundHandler) Get(c *gin.Context) {
	sum, err := h.fund.Get(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "get fund", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

type AddRequest struct {
	Amount *float64 `json:"amount" validate:"required"`
}

type addResponse struct {
	Success      bool      `json:"success"`
	NewTotal     float64   `json:"new_total"`
	TotalSaved   float64   `json:"total_saved"`
	Transactions int64     `json:"transactions"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Add godoc
// @Summary Add realized savings to the fund
// @Param amount query number false "Amount; alternatively JSON {\"amount\": n}"
// @Success 200 {object} addResponse
// @Failure 400 {object} map[string]string
// @Router /api/shaadi-fund/add [post]
func (h *FundHandler) Add(c *gin.Context) {
	amount, ok := h.amount(c)
	if !ok {
		return
	}

	sum, err := h.fund.Add(c.Request.Context(), amount)
	if err != nil {
		writeError(c, h.log, "add to fund", err)
		return
	}
	c.JSON(http.StatusOK, addResponse{
		Success:      true,
		NewTotal:     sum.TotalSaved,
		TotalSaved:   sum.TotalSaved,
		Transactions: sum.Transactions,
		LastUpdated:  sum.LastUpdated,
	})
}

// amount reads ?amount= first, then the JSON body.
func (h *FundHandler) amount(c *gin.Context) (float64, bool) {
	if q, ok := c.GetQuery("amount"); ok {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil {
			badRequest(c, "amount must be a number")
			return 0, false
		}
		return v, true
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount is required")
		return 0, false
	}
	if err := validateStruct(req); err != nil {
		writeError(c, h.log, "add to fund", err)
		return 0, false
	}
	return *req.Amount, true
}

// Transactions godoc
// @Summary Latest fund additions, newest first
// @Param limit query int false "1..100, default 20"
// @Success 200 {array} domain.FundTransaction
// @Router /api/shaadi-fund/transactions [get]
func (h *FundHandler) Transactions(c *gin.Context) {
	limit := defaultTransactionsLimit
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}

	txs, err := h.fund.Transactions(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.log, "list transactions", err)
		return
	}
	c.JSON(http.StatusOK, txs)
}
