package fxmanifest

import "errors"

var (
	ErrRender = errors.New("manifest render failed")
	ErrWrite  = errors.New("manifest write failed")
)
