package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hodlflow/stacker/pkg/types"
)

// ExecutionLog is one simulated purchase against a plan. Append-only:
// rows are created by a successful execution and never mutated.
type ExecutionLog struct {
	ID     string `gorm:"column:id;primary_key;type:varchar(64);index:idx_plan_id_id,priority:2,sort:desc" json:"id"`
	PlanID string `gorm:"column:plan_id;type:varchar(64);not null;index:idx_plan_id_id,priority:1" json:"plan_id"`
	// AmountIn equals the plan's AmountPerExecution at execution time.
	AmountIn  decimal.Decimal `gorm:"column:amount_in;type:decimal(38,18);not null" json:"amount_in"`
	AmountOut decimal.Decimal `gorm:"column:amount_out;type:decimal(38,18);not null" json:"amount_out"`
	// PriceAtExecution is the reference price used for the conversion.
	PriceAtExecution decimal.Decimal       `gorm:"column:price_at_execution;type:decimal(38,18);not null" json:"price_at_execution"`
	Status           types.ExecutionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	ErrorMessage     *string               `gorm:"column:error_message;type:varchar(512);default:null" json:"error_message,omitempty"`
	ExecutedAt       time.Time             `gorm:"column:executed_at;not null" json:"executed_at"`
	CreatedAt        time.Time             `json:"created_at"`
}

func (ExecutionLog) TableName() string {
	return "execution_log"
}
