package config

import "errors"

var (
	// ErrInvalidBaseURL indicates the vault URL is not an absolute http(s) URL
	ErrInvalidBaseURL = errors.New("invalid vault base URL")

	// ErrInvalidTimeout indicates vault.timeout is not a non-negative Go duration
	ErrInvalidTimeout = errors.New("invalid vault timeout")
)
