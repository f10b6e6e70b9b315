package ports

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrNotAuthenticated = errors.New("not authenticated")
)
