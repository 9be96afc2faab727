// internal/handler/sales.go
package handler

import (
	"net/http"

	"baniya/internal/domain"

	"github.com/gin-gonic/gin"
)

type SalesFeed interface {
	Predictions(platform string) []domain.SalePrediction
}

type SalesHandler struct {
	feed SalesFeed
}

func NewSalesHandler(feed SalesFeed) *SalesHandler {
	return &SalesHandler{feed: feed}
}

// Predictions godoc
// @Summary Upcoming sale events
// @Param platform query string false "Platform name, case-insensitive"
// @Success 200 {array} domain.SalePrediction
// @Router /api/sales/predictions [get]
func (h *SalesHandler) Predictions(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.Predictions(c.Query("platform")))
}
