package guidance

import "errors"

var (
	ErrInvalidRoute    = errors.New("invalid route")
	ErrInvalidFix      = errors.New("invalid fix")
	ErrSessionInactive = errors.New("navigation session is inactive")
	ErrInvalidLocale   = errors.New("invalid announcement locale")
)
