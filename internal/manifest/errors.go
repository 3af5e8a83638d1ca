package manifest

import "errors"

var (
	ErrRead  = errors.New("manifest read failed")
	ErrParse = errors.New("manifest parse failed")
)
