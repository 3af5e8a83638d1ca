package hook

import "errors"

var (
	ErrNotRegistered = errors.New("hook not registered")
	ErrHookFailed    = errors.New("hook failed")
)
