package model

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) at the site
// that detects the failure so callers can use errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrMediaDecode     = errors.New("media decode error")
	ErrChunkWrite      = errors.New("chunk write error")
	ErrStorage         = errors.New("storage error")
	ErrInvalidState    = errors.New("invalid state")
)
