package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []TimelineStatus{
		TimelinePending,
		TimelinePickedUpAndAssigned,
		TimelineConfirmed,
		TimelineReviewRequested,
		TimelineInRoute,
		TimelineCompletedDelivered,
		TimelineCompletedIncomplete,
	}

	// The only legal edges. PENDING leaves through driver assignment, review
	// is a dead end and terminal states have no outgoing transitions, so every
	// pair outside this set must be rejected.
	legal := map[[2]TimelineStatus]bool{
		{TimelinePickedUpAndAssigned, TimelineConfirmed}:       true,
		{TimelinePickedUpAndAssigned, TimelineReviewRequested}: true,
		{TimelineConfirmed, TimelineInRoute}:                   true,
		{TimelineInRoute, TimelineCompletedDelivered}:          true,
		{TimelineInRoute, TimelineCompletedIncomplete}:         true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]TimelineStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "CanTransition(%s, %s)", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingTransitions(t *testing.T) {
	all := []TimelineStatus{
		TimelinePending,
		TimelinePickedUpAndAssigned,
		TimelineConfirmed,
		TimelineReviewRequested,
		TimelineInRoute,
		TimelineCompletedDelivered,
		TimelineCompletedIncomplete,
	}

	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "terminal %s must not transition to %s", from, to)
		}
	}
}

func TestParseTimelineStatus(t *testing.T) {
	parsed, err := ParseTimelineStatus("IN_ROUTE")
	require.NoError(t, err)
	assert.Equal(t, TimelineInRoute, parsed)

	_, err = ParseTimelineStatus("in_route")
	assert.ErrorIs(t, err, ErrInvalidTimelineStatus)

	_, err = ParseTimelineStatus("")
	assert.ErrorIs(t, err, ErrInvalidTimelineStatus)
}

func TestParseDeliveryStatus(t *testing.T) {
	parsed, err := ParseDeliveryStatus("NO_ONE_HOME")
	require.NoError(t, err)
	assert.Equal(t, DeliveryNoOneHome, parsed)

	_, err = ParseDeliveryStatus("DELIVERED")
	assert.ErrorIs(t, err, ErrInvalidDeliveryStatus)
}

func TestParseReviewReason(t *testing.T) {
	parsed, err := ParseReviewReason("CLIENT_UNREACHABLE")
	require.NoError(t, err)
	assert.Equal(t, ReviewReasonUnreachable, parsed)

	_, err = ParseReviewReason("ran out of fuel")
	assert.ErrorIs(t, err, ErrInvalidReviewReason)

	_, err = ParseReviewReason("")
	assert.ErrorIs(t, err, ErrInvalidReviewReason)
}

func TestMatchesTerminal(t *testing.T) {
	delivered := []DeliveryStatus{
		DeliverySuccessfullyDelivered,
		DeliveryPackageDeliveredToClient,
	}
	incomplete := []DeliveryStatus{
		DeliveryClientUnavailable,
		DeliveryNoOneHome,
		DeliveryWrongAddress,
		DeliveryAddressIncorrect,
		DeliveryUnsafeLocation,
		DeliverySafetyConcern,
		DeliveryOther,
	}

	for _, s := range delivered {
		assert.True(t, s.MatchesTerminal(TimelineCompletedDelivered), "%s should match COMPLETED_DELIVERED", s)
		assert.False(t, s.MatchesTerminal(TimelineCompletedIncomplete), "%s should not match COMPLETED_INCOMPLETE", s)
	}
	for _, s := range incomplete {
		assert.True(t, s.MatchesTerminal(TimelineCompletedIncomplete), "%s should match COMPLETED_INCOMPLETE", s)
		assert.False(t, s.MatchesTerminal(TimelineCompletedDelivered), "%s should not match COMPLETED_DELIVERED", s)
	}

	// non-terminal targets never match
	assert.False(t, DeliverySuccessfullyDelivered.MatchesTerminal(TimelineInRoute))
}

func TestActionFor(t *testing.T) {
	cases := map[TimelineStatus]Action{
		TimelinePickedUpAndAssigned: ActionOrderAssigned,
		TimelineConfirmed:           ActionOrderConfirmed,
		TimelineInRoute:             ActionOrderShipped,
		TimelineCompletedDelivered:  ActionDeliveryCompletedSuccess,
		TimelineCompletedIncomplete: ActionDeliveryCompletedIncomplete,
		TimelineReviewRequested:     ActionReviewRequested,
		TimelinePending:             ActionStatusChange,
	}

	for s, want := range cases {
		assert.Equal(t, want, ActionFor(s), "ActionFor(%s)", s)
	}
}

func TestMilestoneColumn(t *testing.T) {
	cases := []struct {
		status TimelineStatus
		col    string
		ok     bool
	}{
		{TimelineConfirmed, "confirmed_at", true},
		{TimelineInRoute, "in_route_at", true},
		{TimelineReviewRequested, "review_requested_at", true},
		{TimelineCompletedDelivered, "completed_at", true},
		{TimelineCompletedIncomplete, "completed_at", true},
		{TimelinePending, "", false},
		{TimelinePickedUpAndAssigned, "", false},
	}

	for _, tc := range cases {
		col, ok := MilestoneColumn(tc.status)
		assert.Equal(t, tc.ok, ok, "MilestoneColumn(%s) presence", tc.status)
		assert.Equal(t, tc.col, col, "MilestoneColumn(%s) column", tc.status)
	}
}
