package models

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrIllegalTransition = errors.New("illegal status transition")
)
