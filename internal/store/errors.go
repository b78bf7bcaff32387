package store

import "errors"

var (
	ErrNotFound          = errors.New("entry not found")
	ErrUnknownCollection = errors.New("unknown collection")
)
