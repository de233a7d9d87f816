package config

import "errors"

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid value")

	// ErrParse indicates a malformed file or environment value.
	ErrParse = errors.New("config: parse error")
)
