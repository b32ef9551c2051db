package surface

import "errors"

// Builder errors. Returned errors wrap one of these, so callers should test
// with errors.Is.
var (
	ErrInvalidDomain    = errors.New("invalid domain")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDegenerateGrid   = errors.New("degenerate grid")
)
