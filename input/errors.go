package input

import "errors"

// ErrInvalidKeyTable is returned for malformed key bindings
var ErrInvalidKeyTable = errors.New("invalid key table")
