package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	models "github.com/hodlflow/stacker/internal/models"
	"github.com/hodlflow/stacker/pkg/logctx"
	"github.com/hodlflow/stacker/pkg/tool"
	types "github.com/hodlflow/stacker/pkg/types"
)

// amountOutScale caps the division precision for the simulated conversion.
// 18 matches the token-decimal magnitude the decimal columns carry.
const amountOutScale = 18

// CreatePlan validates the request and stores a new active plan. The full
// deposit (amount per execution times the execution budget) is computed with
// exact decimal arithmetic and fixed at creation.
func (s *Service) CreatePlan(ctx context.Context, req *CreatePlanRequest) (*models.Plan, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request: %w", ErrInvalidPlanParameters)
	}
	if req.Owner == "" {
		return nil, fmt.Errorf("owner is required: %w", ErrInvalidPlanParameters)
	}
	if req.TotalExecutions < 1 {
		return nil, fmt.Errorf("total_executions must be positive, got %d: %w", req.TotalExecutions, ErrInvalidPlanParameters)
	}
	if !req.Interval.Valid() {
		return nil, fmt.Errorf("unknown interval %q: %w", req.Interval, ErrInvalidPlanParameters)
	}
	amount, err := decimal.NewFromString(req.AmountPerExecution)
	if err != nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("amount_per_execution %q is not a valid non-negative decimal: %w", req.AmountPerExecution, ErrInvalidPlanParameters)
	}

	now := time.Now()
	p := &models.Plan{
		ID:                  tool.GenerateID("plan"),
		Owner:               req.Owner,
		AmountPerExecution:  amount,
		TotalDeposited:      amount.Mul(decimal.NewFromInt(int64(req.TotalExecutions))),
		TotalExecutions:     req.TotalExecutions,
		ExecutionsCompleted: 0,
		Interval:            req.Interval,
		NextExecutionAt:     now,
		Status:              types.PlanStatusActive,
		Extra:               datatypes.JSONMap{},
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("plan created",
		"plan_id", p.ID, "owner", p.Owner, "interval", p.Interval, "total_executions", p.TotalExecutions)
	s.writePlanLog(ctx, nil, p, types.PlanChangeReasonCreate)

	return p, nil
}

// CancelPlan transitions an active or paused plan to cancelled. Only the
// owner may cancel; terminal plans fail with ErrInvalidPlanState. No refund
// accounting happens here: the engine tracks committed totals only.
func (s *Service) CancelPlan(ctx context.Context, planID string, requester string) (*models.Plan, error) {
	mu := s.lockPlan(planID)
	mu.Lock()
	defer mu.Unlock()

	var p models.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", planID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotFound)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if p.Owner != requester {
		return nil, fmt.Errorf("plan %s is owned by %s: %w", planID, p.Owner, ErrNotPlanOwner)
	}
	if !p.Status.Cancellable() {
		return nil, fmt.Errorf("plan %s is %s: %w", planID, p.Status, ErrInvalidPlanState)
	}

	before := p
	p.Status = types.PlanStatusCancelled

	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel plan: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("plan cancelled", "plan_id", p.ID, "owner", p.Owner)
	s.writePlanLog(ctx, &before, &p, types.PlanChangeReasonCancel)

	return &p, nil
}

// ExecutePlan performs one simulated purchase on a due, active plan:
// it pulls the reference price, appends an execution record, consumes one
// unit of the budget and advances the schedule. The log row and the plan
// update commit in one transaction, so a failure anywhere leaves no partial
// state. The next execution time advances by one interval from the previous
// scheduled time, not from now, so late runs keep a fixed cadence.
func (s *Service) ExecutePlan(ctx context.Context, planID string) (*models.ExecutionLog, error) {
	mu := s.lockPlan(planID)
	mu.Lock()
	defer mu.Unlock()

	var p models.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", planID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotFound)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	now := time.Now()
	if !p.Executable(now) {
		return nil, fmt.Errorf("plan %s is %s, next execution at %s: %w",
			planID, p.Status, p.NextExecutionAt.Format(time.RFC3339), ErrPlanNotExecutable)
	}
	if p.ExecutionsCompleted >= p.TotalExecutions {
		// budget already exhausted; status should be completed by now
		return nil, fmt.Errorf("plan %s has no remaining executions: %w", planID, ErrPlanNotExecutable)
	}

	snap, err := s.prices.GetPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get price for plan %s: %w", planID, err)
	}

	before := p
	entry := &models.ExecutionLog{
		ID:               tool.GenerateID("exec"),
		PlanID:           p.ID,
		AmountIn:         p.AmountPerExecution,
		AmountOut:        p.AmountPerExecution.DivRound(snap.Price, amountOutScale),
		PriceAtExecution: snap.Price,
		Status:           types.ExecutionStatusSuccess,
		ExecutedAt:       now,
	}

	p.ExecutionsCompleted++
	p.NextExecutionAt = p.NextExecutionAt.Add(p.Interval.Duration())
	if p.ExecutionsCompleted == p.TotalExecutions {
		p.Status = types.PlanStatusCompleted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append execution log: %w", err)
		}
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute plan %s: %w", planID, err)
	}

	logctx.FromCtx(ctx, s.log).Infow("plan executed",
		"plan_id", p.ID, "execution_id", entry.ID,
		"amount_in", entry.AmountIn, "amount_out", entry.AmountOut,
		"price", entry.PriceAtExecution, "price_source", snap.Source,
		"completed", p.ExecutionsCompleted, "total", p.TotalExecutions)
	s.writePlanLog(ctx, &before, &p, types.PlanChangeReasonExecute)

	return entry, nil
}

// writePlanLog records a before/after audit row asynchronously; errors are
// logged but not returned.
func (s *Service) writePlanLog(ctx context.Context, before *models.Plan, after *models.Plan, reason types.PlanChangeReason) {
	go func(before *models.Plan, after *models.Plan, reason types.PlanChangeReason) {
		log := &models.PlanLog{
			ID:     tool.GenerateUUIDV7(),
			PlanID: after.ID,
			Owner:  after.Owner,
			Reason: reason,
			Before: datatypes.NewJSONType(before),
			After:  datatypes.NewJSONType(after),
			Extra:  datatypes.JSONMap{},
		}
		if err := s.db.Save(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save plan log: %v", err)
		}
	}(before, after, reason)
}
