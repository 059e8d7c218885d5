package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	models "github.com/hodlflow/stacker/internal/models"
	"github.com/hodlflow/stacker/internal/app/service/plan"
	"github.com/hodlflow/stacker/internal/app/service/price"
	"github.com/hodlflow/stacker/pkg/config"
	types "github.com/hodlflow/stacker/pkg/types"
)

type stubPlanMgr struct {
	due      []*models.Plan
	executed []string
	fail     map[string]error
}

func (s *stubPlanMgr) CreatePlan(_ context.Context, _ *plan.CreatePlanRequest) (*models.Plan, error) {
	panic("not used")
}

func (s *stubPlanMgr) CancelPlan(_ context.Context, _ string, _ string) (*models.Plan, error) {
	panic("not used")
}

func (s *stubPlanMgr) ExecutePlan(_ context.Context, planID string) (*models.ExecutionLog, error) {
	if err, ok := s.fail[planID]; ok {
		return nil, err
	}
	s.executed = append(s.executed, planID)
	return &models.ExecutionLog{ID: "exec_1", PlanID: planID, Status: types.ExecutionStatusSuccess, ExecutedAt: time.Now()}, nil
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
	return s.due, nil
}

func (s *stubPlanMgr) ScanPlans(_ context.Context, _ *plan.ScanPlansRequest) (*plan.ScanPlansResponse, error) {
	panic("not used")
}

func TestRunDuePlans_ExecutesAllDue(t *testing.T) {
	mgr := &stubPlanMgr{due: []*models.Plan{{ID: "plan_a"}, {ID: "plan_b"}}}
	s := NewScheduler(&config.Config{}, zap.NewNop().Sugar(), mgr)

	s.RunDuePlans(context.Background())
	require.Equal(t, []string{"plan_a", "plan_b"}, mgr.executed)
}

func TestRunDuePlans_ContinuesPastFailures(t *testing.T) {
	mgr := &stubPlanMgr{
		due: []*models.Plan{{ID: "plan_a"}, {ID: "plan_b"}, {ID: "plan_c"}},
		fail: map[string]error{
			"plan_a": price.ErrPriceUnavailable,
			"plan_b": plan.ErrPlanNotExecutable,
		},
	}
	s := NewScheduler(&config.Config{}, zap.NewNop().Sugar(), mgr)

	s.RunDuePlans(context.Background())
	require.Equal(t, []string{"plan_c"}, mgr.executed)
}
