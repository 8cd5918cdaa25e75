package db

import "errors"

// Errors for db module.
var (
	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance is returned when a debit would drive a
	// user's point balance negative. No partial debit is ever applied.
	ErrInsufficientBalance = errors.New("insufficient point balance")

	// ErrInvalidTransition is returned when an order status change is not
	// permitted from the current state
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyProcessed is returned when the triggering event has
	// already been settled (duplicate vote, second publish, double refund)
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrContestClosed is returned when submitting outside the contest
	// window or after the answer has been published
	ErrContestClosed = errors.New("contest is closed")

	// ErrVotingClosed is returned when the campaign voting window is not open
	ErrVotingClosed = errors.New("voting is closed")

	// ErrSurveyClosed is returned when the survey is inactive or outside
	// its response window
	ErrSurveyClosed = errors.New("survey is closed")

	// ErrOutOfStock is returned when an order asks for more units than the
	// product has available
	ErrOutOfStock = errors.New("insufficient stock")

	// ErrVoteLimitReached is returned when the user has spent all their
	// votes in a campaign
	ErrVoteLimitReached = errors.New("vote limit reached")

	// ErrCouponNotUsable is returned when a coupon fails one of its gates
	// for the order it was applied to
	ErrCouponNotUsable = errors.New("coupon cannot be used for this order")
)
