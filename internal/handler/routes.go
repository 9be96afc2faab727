// internal/handler/routes.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Cards   *CardHandler
	Compare *CompareHandler
	Sales   *SalesHandler
	Fund    *FundHandler
}

// Register mounts every endpoint on r.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Baniya.ai API"})
		})

		api.GET("/cc-helper/cards", h.Cards.ListCards)
		api.POST("/cc-helper/recommend", h.Cards.Recommend)

		api.POST("/qcommerce/compare", h.Compare.Compare)
		api.POST("/qcommerce/analyze", h.Compare.Analyze)

		api.GET("/sales/predictions", h.Sales.Predictions)

		api.GET("/shaadi-fund", h.Fund.Get)
		api.POST("/shaadi-fund/add", h.Fund.Add)
		api.GET("/shaadi-fund/transactions", h.Fund.Transactions)
	}
}
