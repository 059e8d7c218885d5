package types

import "time"

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusPaused    PlanStatus = "paused"
	PlanStatusCancelled PlanStatus = "cancelled"
	PlanStatusCompleted PlanStatus = "completed"
)

// Cancellable reports whether a plan in this status may still be cancelled.
// Completed and cancelled plans are terminal.
func (s PlanStatus) Cancellable() bool {
	return s == PlanStatusActive || s == PlanStatusPaused
}

type PlanInterval string

const (
	PlanIntervalDaily    PlanInterval = "daily"
	PlanIntervalWeekly   PlanInterval = "weekly"
	PlanIntervalBiweekly PlanInterval = "biweekly"
	PlanIntervalMonthly  PlanInterval = "monthly"
)

// Duration returns the fixed offset between two scheduled executions.
// Monthly is a fixed 30 days, matching the on-chain contract.
func (i PlanInterval) Duration() time.Duration {
	switch i {
	case PlanIntervalDaily:
		return 24 * time.Hour
	case PlanIntervalWeekly:
		return 7 * 24 * time.Hour
	case PlanIntervalBiweekly:
		return 14 * 24 * time.Hour
	case PlanIntervalMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

func (i PlanInterval) Valid() bool {
	return i.Duration() > 0
}

type ExecutionStatus string

const (
	ExecutionStatusPending ExecutionStatus = "pending"
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

type PlanChangeReason string

const (
	PlanChangeReasonCreate  PlanChangeReason = "create"
	PlanChangeReasonCancel  PlanChangeReason = "cancel"
	PlanChangeReasonExecute PlanChangeReason = "execute"
)
