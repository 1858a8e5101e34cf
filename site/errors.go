package site

import "netspo/errors"

var (
	errInitFailed = errors.NewError("site", errors.ErrInitFailed.Error(), nil)
)
