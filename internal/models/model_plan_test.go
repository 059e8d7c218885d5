package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hodlflow/stacker/pkg/types"
)

func TestPlanExecutable(t *testing.T) {
	now := time.Now()

	p := &Plan{Status: types.PlanStatusActive, NextExecutionAt: now.Add(-time.Minute)}
	require.True(t, p.Executable(now))

	p.NextExecutionAt = now
	require.True(t, p.Executable(now))

	p.NextExecutionAt = now.Add(time.Minute)
	require.False(t, p.Executable(now))

	p.NextExecutionAt = now.Add(-time.Minute)
	for _, s := range []types.PlanStatus{types.PlanStatusPaused, types.PlanStatusCancelled, types.PlanStatusCompleted} {
		p.Status = s
		require.False(t, p.Executable(now), "status %s must not be executable", s)
	}

	var nilPlan *Plan
	require.False(t, nilPlan.Executable(now))
}

func TestPlanRemainingExecutions(t *testing.T) {
	p := &Plan{TotalExecutions: 10, ExecutionsCompleted: 3}
	require.Equal(t, 7, p.RemainingExecutions())

	var nilPlan *Plan
	require.Equal(t, 0, nilPlan.RemainingExecutions())
}
