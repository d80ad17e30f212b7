package scans

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoRawPayload = errors.New("no raw payload archived")
)
