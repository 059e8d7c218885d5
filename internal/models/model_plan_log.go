package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hodlflow/stacker/pkg/types"
)

// PlanLog records plan state changes for troubleshooting.
type PlanLog struct {
	ID     string                 `gorm:"column:id;primary_key;type:uuid;index:idx_plan_log_plan_id_id,priority:2,sort:desc"`
	PlanID string                 `gorm:"column:plan_id;type:varchar(64);not null;index:idx_plan_log_plan_id_id,priority:1"`
	Owner  string                 `gorm:"column:owner;type:varchar(128);not null"`
	Reason types.PlanChangeReason `gorm:"column:reason;type:varchar(32);not null"`
	// Before is the plan state before the change, JSON encoded; null on create.
	Before datatypes.JSONType[*Plan] `gorm:"column:before;type:jsonb;default:'null'"`
	// After is the plan state after the change, JSON encoded.
	After datatypes.JSONType[*Plan] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra carries additional context, such as the trigger source.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time         `json:"created_at"`
}

func (PlanLog) TableName() string {
	return "plan_log"
}
