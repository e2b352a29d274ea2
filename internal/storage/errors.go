package storage

import "errors"

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageExists   = errors.New("page already exists")
	ErrInvalidData  = errors.New("invalid data")
)
