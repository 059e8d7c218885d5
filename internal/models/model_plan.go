package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/hodlflow/stacker/pkg/types"
)

// Plan is a recurring-purchase commitment mirroring the on-chain DCA
// position. Rows are never deleted; status transitions substitute.
type Plan struct {
	ID    string `gorm:"column:id;primary_key;type:varchar(64);index:idx_owner_id,priority:2,sort:desc" json:"id"`
	Owner string `gorm:"column:owner;type:varchar(128);not null;index:idx_owner_id,priority:1" json:"owner"`
	// AmountPerExecution is the input-asset quantity spent per execution.
	// Immutable after creation, like Owner, TotalExecutions and Interval.
	AmountPerExecution decimal.Decimal `gorm:"column:amount_per_execution;type:decimal(38,18);not null" json:"amount_per_execution"`
	// TotalDeposited = AmountPerExecution * TotalExecutions, fixed at
	// creation. Committed capital, not a running balance.
	TotalDeposited      decimal.Decimal    `gorm:"column:total_deposited;type:decimal(38,18);not null" json:"total_deposited"`
	TotalExecutions     int                `gorm:"column:total_executions;not null" json:"total_executions"`
	ExecutionsCompleted int                `gorm:"column:executions_completed;not null;default:0" json:"executions_completed"`
	Interval            types.PlanInterval `gorm:"column:interval;type:varchar(16);not null" json:"interval"`
	// NextExecutionAt advances by one interval from the previous scheduled
	// time on each execution, so late runs do not drift the cadence.
	NextExecutionAt time.Time        `gorm:"column:next_execution_at;not null" json:"next_execution_at"`
	Status          types.PlanStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	// Extra stores additional JSON data (for example: on-chain tx hashes).
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plan"
}

// Executable reports whether the plan may be executed at now: it must be
// active and due.
func (p *Plan) Executable(now time.Time) bool {
	return p != nil && p.Status == types.PlanStatusActive && !p.NextExecutionAt.After(now)
}

func (p *Plan) RemainingExecutions() int {
	if p == nil {
		return 0
	}
	return p.TotalExecutions - p.ExecutionsCompleted
}
