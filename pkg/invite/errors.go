package invite

import "errors"

var (
	ErrQueryFailed = errors.New("invite store query failed")
)
