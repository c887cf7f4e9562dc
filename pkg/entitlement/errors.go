package entitlement

import "errors"

var (
	ErrUnknownPlan        = errors.New("unknown subscription plan")
	ErrInviteNotFound     = errors.New("beta invite not found")
	ErrPreferenceNotFound = errors.New("plan preference not found")
)
