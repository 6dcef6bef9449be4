package dispatchsvc

import "errors"

var (
	// ErrInvalidTransition is returned for any (current, requested) status
	// pair outside the legal-transition table. No field changes.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrMissingDeliveryOutcome is returned when a terminal transition is
	// requested without a delivery outcome.
	ErrMissingDeliveryOutcome = errors.New("delivery outcome is required for a completed status")
	// ErrDeliveryOutcomeMismatch is returned when the supplied outcome belongs
	// to the wrong category for the requested terminal status.
	ErrDeliveryOutcomeMismatch = errors.New("delivery outcome does not match the requested completed status")
	// ErrMissingReviewReason is returned when a review is requested without a
	// reason.
	ErrMissingReviewReason = errors.New("review reason is required")
	// ErrMissingReviewNotes is returned when the OTHER review reason carries
	// no notes.
	ErrMissingReviewNotes = errors.New("review notes are required for the OTHER reason")
	// ErrIdentifierGeneration is returned when the database-side identifier
	// functions fail. Assignment aborts before any write.
	ErrIdentifierGeneration = errors.New("identifier generation failed")
	// ErrPersistence classifies store write failures.
	ErrPersistence = errors.New("persistence failed")
)
