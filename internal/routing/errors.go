package routing

import "errors"

var (
	// ErrInvalidCoordinate is returned when a latitude or longitude is out of range
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrDuplicateLocationName is returned when two points share a name
	ErrDuplicateLocationName = errors.New("duplicate location name")

	// ErrInvalidContainerSpec is returned when the container capacity is missing or negative
	ErrInvalidContainerSpec = errors.New("invalid container spec")

	// ErrInvalidBinSpec is returned when a bin has no name, a fill level outside
	// 0-100 or a negative volume/weight
	ErrInvalidBinSpec = errors.New("invalid bin spec")
)

// IsValidationError reports whether err was caused by bad input rather than
// an internal failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCoordinate) ||
		errors.Is(err, ErrDuplicateLocationName) ||
		errors.Is(err, ErrInvalidContainerSpec) ||
		errors.Is(err, ErrInvalidBinSpec)
}
