package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrProfileNotFound    = errors.New("employee profile not found")
	ErrInvalidEmployeeID  = errors.New("invalid employee id")
	ErrDirectoryNotLoaded = errors.New("employee directory could not be loaded")
)
