package sync

import "errors"

var (
	ErrInvalidDocument = errors.New("invalid document")
	ErrStorage         = errors.New("document storage failure")
)
