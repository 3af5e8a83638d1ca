package protocol

import "errors"

var (
	ErrEncode   = errors.New("encode failed")
	ErrDecode   = errors.New("decode failed")
	ErrConnect  = errors.New("daemon not reachable")
	ErrResponse = errors.New("daemon returned an error")
)
