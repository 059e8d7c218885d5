package plan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "github.com/hodlflow/stacker/internal/models"
	"github.com/hodlflow/stacker/internal/app/service/price"
	"github.com/hodlflow/stacker/pkg/config"
	types "github.com/hodlflow/stacker/pkg/types"
)

// PriceProvider is the single outbound dependency of the engine.
type PriceProvider interface {
	GetPrice(ctx context.Context) (*price.Snapshot, error)
}

type CreatePlanRequest struct {
	Owner              string             `json:"owner"`
	AmountPerExecution string             `json:"amount_per_execution"`
	TotalExecutions    int                `json:"total_executions"`
	Interval           types.PlanInterval `json:"interval"`
}

// PlanManager owns the plan lifecycle and the append-only execution ledger.
type PlanManager interface {
	// Create a plan in active state with its full deposit committed.
	CreatePlan(ctx context.Context, req *CreatePlanRequest) (*models.Plan, error)
	// Cancel an active or paused plan; only the owner may cancel.
	CancelPlan(ctx context.Context, planID string, requester string) (*models.Plan, error)
	// Execute one due purchase and append its execution record.
	ExecutePlan(ctx context.Context, planID string) (*models.ExecutionLog, error)
	GetPlanByID(ctx context.Context, planID string) (*models.Plan, error)
	GetPlansByOwner(ctx context.Context, owner string) ([]*models.Plan, error)
	GetExecutionLogs(ctx context.Context, planID string) ([]*models.ExecutionLog, error)
	// List due active plans for the scheduler.
	GetDuePlans(ctx context.Context) ([]*models.Plan, error)
	// Scan plans (used by admin list pages).
	ScanPlans(ctx context.Context, req *ScanPlansRequest) (*ScanPlansResponse, error)
}

type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	log    *zap.SugaredLogger
	prices PriceProvider

	// one mutex per plan id; serializes cancel/execute on the same plan
	locks sync.Map
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, prices PriceProvider) PlanManager {
	return &Service{cfg: cfg, db: db, log: log, prices: prices}
}

func (s *Service) lockPlan(planID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(planID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *Service) GetPlanByID(ctx context.Context, planID string) (*models.Plan, error) {
	var p models.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", planID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %s: %w", planID, ErrPlanNotFound)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &p, nil
}

func (s *Service) GetPlansByOwner(ctx context.Context, owner string) ([]*models.Plan, error) {
	var items []*models.Plan
	if err := s.db.WithContext(ctx).Where("owner = ?", owner).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return items, nil
}

func (s *Service) GetExecutionLogs(ctx context.Context, planID string) ([]*models.ExecutionLog, error) {
	var items []*models.ExecutionLog
	if err := s.db.WithContext(ctx).Where("plan_id = ?", planID).Order("executed_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list execution logs: %w", err)
	}
	return items, nil
}

// GetDuePlans returns active plans whose next execution time has passed.
func (s *Service) GetDuePlans(ctx context.Context) ([]*models.Plan, error) {
	var items []*models.Plan
	if err := s.db.WithContext(ctx).
		Where("status = ? AND next_execution_at <= ?", types.PlanStatusActive, time.Now()).
		Order("next_execution_at asc").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list due plans: %w", err)
	}
	return items, nil
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// Scan plan request/response.
type ScanPlansRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPlansResponse struct {
	Items []*models.Plan `json:"items"`
	Total int64          `json:"total"`
}

// ScanPlans implements paginated/admin listing with filters
func (s *Service) ScanPlans(ctx context.Context, req *ScanPlansRequest) (*ScanPlansResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Plan{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count plans: %w", err)
	}

	var rows []*models.Plan

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return &ScanPlansResponse{Items: rows, Total: total}, nil
}
