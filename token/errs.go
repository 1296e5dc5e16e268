package token

import "errors"

var (
	ErrUnterminated = errors.New("unterminated string")
)
