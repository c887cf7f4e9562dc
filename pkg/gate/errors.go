package gate

import "errors"

var (
	ErrInvalidResource     = errors.New("invalid gated resource")
	ErrNoCounterRegistered = errors.New("no usage counter registered for resource")
	ErrFailedToCountUsage  = errors.New("failed to count resource usage")
)
