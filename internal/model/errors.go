package model

import "errors"

var (
	ErrValidation  = errors.New("model: invalid activity")
	ErrNotFound    = errors.New("model: activity not found")
	ErrFormat      = errors.New("model: unrecognized schedule format")
	ErrPersistence = errors.New("model: persistence failed")
)
