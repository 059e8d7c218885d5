package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/hodlflow/stacker/internal/app/service/plan"
	models "github.com/hodlflow/stacker/internal/models"
	"github.com/hodlflow/stacker/pkg/response"
	"github.com/hodlflow/stacker/pkg/types"
)

type ListPlansRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type PlanItem struct {
	ID                  string             `json:"id"`
	Owner               string             `json:"owner"`
	AmountPerExecution  string             `json:"amount_per_execution"`
	TotalDeposited      string             `json:"total_deposited"`
	TotalExecutions     int                `json:"total_executions"`
	ExecutionsCompleted int                `json:"executions_completed"`
	Interval            types.PlanInterval `json:"interval"`
	NextExecutionAt     time.Time          `json:"next_execution_at"`
	Status              types.PlanStatus   `json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

func toPlanItem(m *models.Plan) *PlanItem {
	return &PlanItem{
		ID:                  m.ID,
		Owner:               m.Owner,
		AmountPerExecution:  m.AmountPerExecution.String(),
		TotalDeposited:      m.TotalDeposited.String(),
		TotalExecutions:     m.TotalExecutions,
		ExecutionsCompleted: m.ExecutionsCompleted,
		Interval:            m.Interval,
		NextExecutionAt:     m.NextExecutionAt,
		Status:              m.Status,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

type ListPlansResponse struct {
	Items []*PlanItem `json:"items"`
	Total int64       `json:"total"`
}

// @Summary      List Plans (Admin)
// @Description  Retrieves a paginated and filterable list of all plans.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPlansRequest true "List plans request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListAdminPlans
// @Router       /api/v1/admin/list_plans [post]
func ApiListAdminPlans(mgr plan.PlanManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPlansRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &plan.ScanPlansRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := mgr.ScanPlans(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.Plan, _ int) *PlanItem { return toPlanItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListPlansResponse{Items: items, Total: res.Total}))
	}
}

func RegisterAdminRoutes(r gin.IRouter, mgr plan.PlanManager) {
	r.POST("/list_plans", ApiListAdminPlans(mgr))
}
