package plan

import "errors"

// Business-rule failures surfaced to callers. None are retried here; retry
// policy belongs to whoever invokes the engine. Every failure leaves state
// unmutated.
var (
	ErrInvalidPlanParameters = errors.New("invalid plan parameters")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrNotPlanOwner          = errors.New("requester is not the plan owner")
	ErrInvalidPlanState      = errors.New("plan is not in a cancellable state")
	ErrPlanNotExecutable     = errors.New("plan is not executable")
)
