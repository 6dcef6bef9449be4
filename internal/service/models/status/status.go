package status

import (
	"database/sql/driver"
	"errors"
)

// TimelineStatus is the primary delivery-lifecycle state of an order.
type TimelineStatus string

const (
	TimelinePending             TimelineStatus = "PENDING"
	TimelinePickedUpAndAssigned TimelineStatus = "PICKED_UP_AND_ASSIGNED"
	TimelineConfirmed           TimelineStatus = "CONFIRMED"
	TimelineReviewRequested     TimelineStatus = "REVIEW_REQUESTED"
	TimelineInRoute             TimelineStatus = "IN_ROUTE"
	TimelineCompletedDelivered  TimelineStatus = "COMPLETED_DELIVERED"
	TimelineCompletedIncomplete TimelineStatus = "COMPLETED_INCOMPLETE"
)

var ErrInvalidTimelineStatus = errors.New("invalid timeline status")

func (s TimelineStatus) String() string {
	return string(s)
}

func (s TimelineStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseTimelineStatus(s string) (TimelineStatus, error) {
	switch TimelineStatus(s) {
	case TimelinePending,
		TimelinePickedUpAndAssigned,
		TimelineConfirmed,
		TimelineReviewRequested,
		TimelineInRoute,
		TimelineCompletedDelivered,
		TimelineCompletedIncomplete:
		return TimelineStatus(s), nil
	default:
		return "", ErrInvalidTimelineStatus
	}
}

// IsTerminal reports whether the status ends the delivery lifecycle.
func (s TimelineStatus) IsTerminal() bool {
	return s == TimelineCompletedDelivered || s == TimelineCompletedIncomplete
}

// transitions is the single legal-transition table. PENDING leaves only through
// driver assignment, which is a separate operation and deliberately absent here.
var transitions = map[TimelineStatus][]TimelineStatus{
	TimelinePickedUpAndAssigned: {TimelineConfirmed, TimelineReviewRequested},
	TimelineConfirmed:           {TimelineInRoute},
	TimelineInRoute:             {TimelineCompletedDelivered, TimelineCompletedIncomplete},
}

// CanTransition reports whether moving from one timeline status to another is legal.
func CanTransition(from, to TimelineStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// DeliveryStatus is the terminal outcome detail recorded when an order completes.
type DeliveryStatus string

const (
	DeliverySuccessfullyDelivered    DeliveryStatus = "SUCCESSFULLY_DELIVERED"
	DeliveryPackageDeliveredToClient DeliveryStatus = "PACKAGE_DELIVERED_TO_CLIENT"
	DeliveryClientUnavailable        DeliveryStatus = "CLIENT_UNAVAILABLE"
	DeliveryNoOneHome                DeliveryStatus = "NO_ONE_HOME"
	DeliveryWrongAddress             DeliveryStatus = "WRONG_ADDRESS"
	DeliveryAddressIncorrect         DeliveryStatus = "ADDRESS_INCORRECT"
	DeliveryUnsafeLocation           DeliveryStatus = "UNSAFE_LOCATION"
	DeliverySafetyConcern            DeliveryStatus = "SAFETY_CONCERN"
	DeliveryOther                    DeliveryStatus = "OTHER"
)

var ErrInvalidDeliveryStatus = errors.New("invalid delivery status")

func (s DeliveryStatus) String() string {
	return string(s)
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(s) {
	case DeliverySuccessfullyDelivered,
		DeliveryPackageDeliveredToClient,
		DeliveryClientUnavailable,
		DeliveryNoOneHome,
		DeliveryWrongAddress,
		DeliveryAddressIncorrect,
		DeliveryUnsafeLocation,
		DeliverySafetyConcern,
		DeliveryOther:
		return DeliveryStatus(s), nil
	default:
		return "", ErrInvalidDeliveryStatus
	}
}

// IsDeliveredOutcome reports whether the outcome belongs to the delivered set.
func (s DeliveryStatus) IsDeliveredOutcome() bool {
	return s == DeliverySuccessfullyDelivered || s == DeliveryPackageDeliveredToClient
}

// MatchesTerminal reports whether the outcome belongs to the category required by
// the requested terminal timeline status.
func (s DeliveryStatus) MatchesTerminal(terminal TimelineStatus) bool {
	switch terminal {
	case TimelineCompletedDelivered:
		return s.IsDeliveredOutcome()
	case TimelineCompletedIncomplete:
		return !s.IsDeliveredOutcome()
	default:
		return false
	}
}

// ReviewReason explains why a driver flagged an order for review.
type ReviewReason string

const (
	ReviewReasonWrongAddress   ReviewReason = "WRONG_ADDRESS"
	ReviewReasonUnreachable    ReviewReason = "CLIENT_UNREACHABLE"
	ReviewReasonMissingDetails ReviewReason = "MISSING_DETAILS"
	ReviewReasonOther          ReviewReason = "OTHER"
)

var ErrInvalidReviewReason = errors.New("invalid review reason")

func (r ReviewReason) String() string {
	return string(r)
}

func ParseReviewReason(s string) (ReviewReason, error) {
	switch ReviewReason(s) {
	case ReviewReasonWrongAddress,
		ReviewReasonUnreachable,
		ReviewReasonMissingDetails,
		ReviewReasonOther:
		return ReviewReason(s), nil
	default:
		return "", ErrInvalidReviewReason
	}
}

// Action is an audit-log action code.
type Action string

const (
	ActionOrderAssigned               Action = "ORDER_ASSIGNED"
	ActionOrderConfirmed              Action = "ORDER_CONFIRMED"
	ActionOrderShipped                Action = "ORDER_SHIPPED"
	ActionDeliveryCompletedSuccess    Action = "DELIVERY_COMPLETED_SUCCESS"
	ActionDeliveryCompletedIncomplete Action = "DELIVERY_COMPLETED_INCOMPLETE"
	ActionReviewRequested             Action = "REVIEW_REQUESTED"
	ActionPHIAccessed                 Action = "PHI_ACCESSED"
	ActionStatusChange                Action = "STATUS_CHANGE"
)

// actions maps each reachable timeline status to its audit action code.
var actions = map[TimelineStatus]Action{
	TimelinePickedUpAndAssigned: ActionOrderAssigned,
	TimelineConfirmed:           ActionOrderConfirmed,
	TimelineInRoute:             ActionOrderShipped,
	TimelineCompletedDelivered:  ActionDeliveryCompletedSuccess,
	TimelineCompletedIncomplete: ActionDeliveryCompletedIncomplete,
	TimelineReviewRequested:     ActionReviewRequested,
}

// ActionFor returns the audit action code recorded for reaching a status.
// Statuses without a dedicated code fall back to STATUS_CHANGE.
func ActionFor(s TimelineStatus) Action {
	if a, ok := actions[s]; ok {
		return a
	}

	return ActionStatusChange
}

// milestoneColumns maps each timeline status to its set-once timestamp column.
// PICKED_UP_AND_ASSIGNED is stamped by driver assignment, never by a plain
// status transition, so it is absent here.
var milestoneColumns = map[TimelineStatus]string{
	TimelineConfirmed:           "confirmed_at",
	TimelineInRoute:             "in_route_at",
	TimelineReviewRequested:     "review_requested_at",
	TimelineCompletedDelivered:  "completed_at",
	TimelineCompletedIncomplete: "completed_at",
}

// MilestoneColumn returns the milestone timestamp column for a status and
// whether the status has one. Statuses without a dedicated column only touch
// the generic updated_at field.
func MilestoneColumn(s TimelineStatus) (string, bool) {
	col, ok := milestoneColumns[s]

	return col, ok
}
