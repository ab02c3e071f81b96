package config

import "errors"

// ErrInvalidOption marks a configuration or flag value that cannot be used.
// Such errors are reported before any scanning starts.
var ErrInvalidOption = errors.New("invalid option")
