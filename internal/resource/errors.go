package resource

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrAmbiguousTarget = errors.New("ambiguous explicit target for multi-file match")
	ErrBadPattern      = errors.New("invalid path-spec")
	ErrInvalidTarget   = errors.New("explicit target escapes the import namespace")
)
