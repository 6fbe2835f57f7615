package utils

import "errors"

// Common application errors used across services. Validation errors map to
// 400, not-found errors to 404, everything else to 500.
var (
	ErrLocationRequired  = errors.New("LOCATION_REQUIRED")
	ErrInvalidCoordinate = errors.New("INVALID_COORDINATE")
	ErrInvalidPagination = errors.New("INVALID_PAGINATION")
	ErrInvalidRadius     = errors.New("INVALID_RADIUS")
	ErrScanLimitExceeded = errors.New("SCAN_LIMIT_EXCEEDED")
	ErrFilterRequired    = errors.New("FILTER_REQUIRED")
	ErrBusinessNotFound  = errors.New("BUSINESS_NOT_FOUND")
	ErrInvalidToken      = errors.New("INVALID_TOKEN")
	ErrInvalidClient     = errors.New("INVALID_CLIENT")
	ErrInvalidIP         = errors.New("INVALID_IP")
)

// IsValidation reports whether err is a request-validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrLocationRequired) ||
		errors.Is(err, ErrInvalidCoordinate) ||
		errors.Is(err, ErrInvalidPagination) ||
		errors.Is(err, ErrInvalidRadius) ||
		errors.Is(err, ErrScanLimitExceeded) ||
		errors.Is(err, ErrFilterRequired)
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBusinessNotFound)
}
