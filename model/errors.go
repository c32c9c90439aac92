package model

import "errors"

var (
	ErrNotRegistered    = errors.New("worker is not registered")
	ErrAlreadyAttending = errors.New("worker is already attending")
	ErrCapacityReached  = errors.New("required worker count reached")
	ErrNotAdmin         = errors.New("action is restricted to the admin")
	ErrPersistence      = errors.New("roster could not be persisted")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidCount     = errors.New("worker count must be a non-negative integer")
	ErrDateNotStaged    = errors.New("no date staged for the request")
)
