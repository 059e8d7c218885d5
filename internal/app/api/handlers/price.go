package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hodlflow/stacker/internal/app/service/plan"
	"github.com/hodlflow/stacker/pkg/response"
)

// @Summary      Get Price
// @Description  Returns the current reference price for the tracked symbol. Serves a stale snapshot when the upstream quote source is down.
// @Tags         Price
// @Produce      json
// @Success      200  {object}  handlers.RespPrice
// @Router       /api/v1/price [get]
func ApiGetPrice(prices plan.PriceProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := prices.GetPrice(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(snap))
	}
}

func RegisterPriceRoutes(r gin.IRouter, prices plan.PriceProvider) {
	r.GET("/price", ApiGetPrice(prices))
}
