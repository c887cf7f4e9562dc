package redis

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid redis config")
	ErrConnectionFailed = errors.New("failed to open redis connection")
	ErrHealthcheck      = errors.New("redis healthcheck failed")
)
