package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
