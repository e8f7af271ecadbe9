package domain

import "errors"

// Sentinel errors shared across the gateway and usecase layers. Callers
// classify failures with errors.Is.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrBadRecord     = errors.New("malformed transaction record")
	ErrUnknownBranch = errors.New("unknown branch")
)
