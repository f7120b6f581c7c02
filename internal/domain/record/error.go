package record

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUnknownCollection  = fmt.Errorf("unknown collection: %w", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("profile does not exist: %w", ErrNotFound)
	ErrInvalidRecord      = errors.New("invalid record data")
	ErrStorageUnavailable = errors.New("local storage unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
}
