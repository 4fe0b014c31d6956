package repository

import "errors"

// Sentinel kinds for history store errors.
var (
	ErrNotFound      = errors.New("history record not found")
	ErrDuplicateKey  = errors.New("history record already exists")
	ErrInvalidLimit  = errors.New("invalid history limit")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrInvalidRecord = errors.New("invalid history record")
	ErrStoreClosed   = errors.New("history store closed")
)
