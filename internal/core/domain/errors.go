package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidDN    = errors.New("invalid distinguished name")
)
