package services

import "errors"

// Domain errors returned to the API layer. Handlers map these onto HTTP
// statuses with errors.Is; anything else is an infrastructure failure.
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrNoCoursesFound      = errors.New("no courses found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already registered")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyEnrolled     = errors.New("user is already enrolled in course")
	ErrNotEnrolled         = errors.New("user is not enrolled in course")
	ErrAlreadyPurchased    = errors.New("user has already purchased course")
	ErrPaymentFailed       = errors.New("payment failed")
)
