package quiz

import "errors"

var (
	// ErrEmptyCategory is returned when a quiz is started on a category with no questions.
	ErrEmptyCategory = errors.New("category has no questions")
	// ErrNoActiveAttempt is returned when no attempt is in progress for the user.
	ErrNoActiveAttempt = errors.New("no attempt in progress")
	// ErrInvalidPosition is returned for question positions outside 1..total.
	ErrInvalidPosition = errors.New("question position out of range")
	// ErrResultForbidden is returned when a result belongs to another user.
	ErrResultForbidden = errors.New("result belongs to another user")
)
