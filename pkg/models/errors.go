package models

import "errors"

// Pipeline failure kinds. Callers match them with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDegenerateInput  = errors.New("degenerate input")
	ErrInvalidState     = errors.New("invalid state")
	ErrPlayerNotFound   = errors.New("player not found")

	ErrPredictionNotFound = errors.New("no cached prediction")
)
