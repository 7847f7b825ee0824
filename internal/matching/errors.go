package matching

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoTargetCountries = errors.New("target countries required before analysis")
	ErrAlreadyFinalized  = errors.New("final report already frozen")
	ErrMissingDependency = errors.New("missing service dependency")
)
