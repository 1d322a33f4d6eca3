package workspace

import "errors"

var (
	ErrSubmitInProgress = errors.New("a review is already being submitted")
	ErrClosed           = errors.New("workspace closed")
)
