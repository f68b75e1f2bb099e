package etfpanel

import (
	"errors"
	"fmt"
)

// Errors returned by the aggregator are wrapped around one of these sentinels.
// Anything that matches none of them is an internal failure.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrInsufficientData = errors.New("insufficient trading days")
	ErrDivisionGuard    = errors.New("start nav must be positive")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
