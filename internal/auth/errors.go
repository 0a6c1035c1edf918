package auth

import "errors"

var (
	ErrNoCredentials = errors.New("no upstream credentials configured")
)
