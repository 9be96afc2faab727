// internal/handler/cards.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"baniya/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Recommender interface {
	Recommend(ctx context.Context, profile domain.SpendingProfile) ([]domain.ScoredRecommendation, error)
	Cards() ([]domain.CardOffer, string, error)
}

type CardHandler struct {
	svc Recommender
	log *zap.Logger
}

func NewCardHandler(svc Recommender, log *zap.Logger) *CardHandler {
	return &CardHandler{svc: svc, log: log}
}

// Recommend godoc
// @Summary Rank credit cards for a monthly spending profile
// @Accept json
// @Produce json
// @Param request body map[string]int true "Monthly spend per category"
// @Success 200 {array} domain.ScoredRecommendation
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/cc-helper/recommend [post]
func (h *CardHandler) Recommend(c *gin.Context) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}

	profile, err := domain.ParseSpendingProfile(raw)
	if err != nil {
		writeError(c, h.log, "recommend", err)
		return
	}

	recs, err := h.svc.Recommend(c.Request.Context(), profile)
	if err != nil {
		writeError(c, h.log, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

type cardsResponse struct {
	Version string             `json:"version"`
	Cards   []domain.CardOffer `json:"cards"`
}

// ListCards godoc
// @Summary List the active card catalog
// @Produce json
// @Success 200 {object} cardsResponse
// @Router /api/cc-helper/cards [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	cards, version, err := h.svc.Cards()
	if err != nil {
		writeError(c, h.log, "list cards", err)
		return
	}
	c.JSON(http.StatusOK, cardsResponse{Version: version, Cards: cards})
}
