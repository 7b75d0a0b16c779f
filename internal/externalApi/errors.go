package externalApi

import "errors"

var (
	ErrNotFound         = errors.New("error not found")
	ErrRateLimited      = errors.New("error rate limited")
	ErrUnauthorized     = errors.New("error unauthorized")
	ErrUnexpectedStatus = errors.New("error unexpected status")
)
