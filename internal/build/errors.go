package build

import "errors"

var (
	ErrBuild               = errors.New("build failed")
	ErrNotImplemented      = errors.New("build not implemented")
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrCopy                = errors.New("copy failed")
	ErrClean               = errors.New("clean failed")
	ErrState               = errors.New("invalid lifecycle transition")
)
