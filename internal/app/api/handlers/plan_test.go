package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hodlflow/stacker/internal/app/service/plan"
	"github.com/hodlflow/stacker/internal/app/service/price"
	models "github.com/hodlflow/stacker/internal/models"
	"github.com/hodlflow/stacker/pkg/types"
)

type stubPlanMgr struct {
	cancelErr error
}

func (s *stubPlanMgr) CreatePlan(_ context.Context, req *plan.CreatePlanRequest) (*models.Plan, error) {
	amount := decimal.RequireFromString(req.AmountPerExecution)
	return &models.Plan{
		ID:                 "plan_test",
		Owner:              req.Owner,
		AmountPerExecution: amount,
		TotalDeposited:     amount.Mul(decimal.NewFromInt(int64(req.TotalExecutions))),
		TotalExecutions:    req.TotalExecutions,
		Interval:           req.Interval,
		NextExecutionAt:    time.Unix(1735689600, 0),
		Status:             types.PlanStatusActive,
	}, nil
}

func (s *stubPlanMgr) CancelPlan(_ context.Context, planID string, _ string) (*models.Plan, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &models.Plan{ID: planID, Status: types.PlanStatusCancelled}, nil
}

func (s *stubPlanMgr) ExecutePlan(_ context.Context, _ string) (*models.ExecutionLog, error) {
	panic("not used")
}

func (s *stubPlanMgr) GetPlanByID(_ context.Context, _ string) (*models.Plan, error) {
	panic("not used")
}

func (s *stubPlanMgr) GetPlansByOwner(_ context.Context, _ string) ([]*models.Plan, error) {
	panic("not used")
}

func (s *stubPlanMgr) GetExecutionLogs(_ context.Context, _ string) ([]*models.ExecutionLog, error) {
	panic("not used")
}

func (s *stubPlanMgr) GetDuePlans(_ context.Context) ([]*models.Plan, error) {
	panic("not used")
}

func (s *stubPlanMgr) ScanPlans(_ context.Context, _ *plan.ScanPlansRequest) (*plan.ScanPlansResponse, error) {
	panic("not used")
}

func TestApiCreatePlan_SerializesDecimalStrings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/plans", ApiCreatePlan(&stubPlanMgr{}))

	body, _ := json.Marshal(map[string]any{
		"owner":                "0xABC",
		"amount_per_execution": "250",
		"total_executions":     4,
		"interval":             "monthly",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total_deposited":"1000"`)
	require.Contains(t, w.Body.String(), `"amount_per_execution":"250"`)
	require.Contains(t, w.Body.String(), `"status":"active"`)
}

func TestApiCancelPlan_MapsEngineErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", plan.ErrPlanNotFound, 40400},
		{"not owner", plan.ErrNotPlanOwner, 40300},
		{"already cancelled", plan.ErrInvalidPlanState, 40900},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/v1/plans/:id/cancel", ApiCancelPlan(&stubPlanMgr{cancelErr: tc.err}))

			body, _ := json.Marshal(map[string]any{"requester": "0xABC"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/plan_test/cancel", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var envelope struct {
				Code int `json:"code"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			require.Equal(t, tc.code, envelope.Code)
		})
	}
}

type stubPrices struct {
	snap *price.Snapshot
	err  error
}

func (s *stubPrices) GetPrice(_ context.Context) (*price.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func TestApiGetPrice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/price", ApiGetPrice(&stubPrices{snap: &price.Snapshot{
		Symbol:    "STRKUSDT",
		Price:     decimal.RequireFromString("0.52"),
		Timestamp: time.Unix(1735689600, 0),
		Source:    price.SourceBinance,
	}}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/price", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"symbol":"STRKUSDT"`)
	require.Contains(t, w.Body.String(), `"price":"0.52"`)
	require.Contains(t, w.Body.String(), `"source":"binance"`)
}

func TestApiGetPrice_Unavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/price", ApiGetPrice(&stubPrices{err: price.ErrPriceUnavailable}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/price", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, 50000, envelope.Code)
}
