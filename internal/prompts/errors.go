package prompts

import "errors"

var (
	ErrNotFound = errors.New("not found")
)
