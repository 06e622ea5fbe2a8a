package domain

import "errors"

var (
	ErrOffGrid   = errors.New("time is not on the booking grid")
	ErrNotFuture = errors.New("booking time must be in the future")
	ErrPastDate  = errors.New("date is in the past")
)
