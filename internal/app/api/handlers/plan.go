package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hodlflow/stacker/internal/app/service/plan"
	"github.com/hodlflow/stacker/internal/app/service/price"
	"github.com/hodlflow/stacker/pkg/response"
)

type cancelPlanRequest struct {
	Requester string `json:"requester" binding:"required"`
}

// planErrorCode maps engine errors onto app-level response codes. The HTTP
// status stays 200; clients switch on the envelope code.
func planErrorCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, plan.ErrInvalidPlanParameters):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, plan.ErrPlanNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, plan.ErrNotPlanOwner):
		return response.APIResponseCodeForbidden
	case errors.Is(err, plan.ErrInvalidPlanState), errors.Is(err, plan.ErrPlanNotExecutable):
		return response.APIResponseCodeConflict
	case errors.Is(err, price.ErrPriceUnavailable):
		return response.APIResponseCodeError
	default:
		return response.APIResponseCodeError
	}
}

// @Summary      Create Plan
// @Description  Creates a DCA plan in active state with its full deposit committed.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        request body plan.CreatePlanRequest true "Plan creation request"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans [post]
func ApiCreatePlan(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req plan.CreatePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		p, err := mgr.CreatePlan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](planErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Get Plan
// @Description  Retrieves one plan by id.
// @Tags         Plan
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans/{id} [get]
func ApiGetPlan(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mgr.GetPlanByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](planErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      List Plans by Owner
// @Description  Retrieves all plans for a wallet address, ordered by creation.
// @Tags         Plan
// @Produce      json
// @Param        owner query string true "Owner wallet address"
// @Success      200  {object}  handlers.RespListPlans
// @Router       /api/v1/plans [get]
func ApiListPlans(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.Query("owner")
		if owner == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "owner is required"))
			return
		}
		items, err := mgr.GetPlansByOwner(c.Request.Context(), owner)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](planErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Cancel Plan
// @Description  Cancels an active or paused plan. Only the owner may cancel.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        request body handlers.cancelPlanRequest true "Cancellation request"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans/{id}/cancel [post]
func ApiCancelPlan(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cancelPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		p, err := mgr.CancelPlan(c.Request.Context(), c.Param("id"), req.Requester)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](planErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Execute Plan
// @Description  Executes one due purchase against a plan and returns the execution record.
// @Tags         Plan
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200  {object}  handlers.RespExecution
// @Router       /api/v1/plans/{id}/execute [post]
func ApiExecutePlan(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := mgr.ExecutePlan(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](planErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entry))
	}
}

// @Summary      List Plan Executions
// @Description  Retrieves the append-only execution ledger of a plan, ordered by execution time.
// @Tags         Plan
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200  {object}  handlers.RespListExecutions
// @Router       /api/v1/plans/{id}/executions [get]
func ApiListExecutions(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := mgr.GetExecutionLogs(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](planErrorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

func RegisterPlanRoutes(r gin.IRouter, mgr plan.PlanManager) {
	r.POST("/plans", ApiCreatePlan(mgr))
	r.GET("/plans", ApiListPlans(mgr))
	r.GET("/plans/:id", ApiGetPlan(mgr))
	r.POST("/plans/:id/cancel", ApiCancelPlan(mgr))
	r.POST("/plans/:id/execute", ApiExecutePlan(mgr))
	r.GET("/plans/:id/executions", ApiListExecutions(mgr))
}
