package plan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreWrapFriendly(t *testing.T) {
	for _, sentinel := range []error{
		ErrInvalidPlanParameters,
		ErrPlanNotFound,
		ErrNotPlanOwner,
		ErrInvalidPlanState,
		ErrPlanNotExecutable,
	} {
		err := fmt.Errorf("wrapped: %w", sentinel)
		require.True(t, errors.Is(err, sentinel))
	}
}
