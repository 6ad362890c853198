package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
