// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package logger

import "errors"

var (
	errExcludeEmpty = errors.New("Encountered logging type '-' with no type to exclude")
	errNoTypes      = errors.New("Logger has no types to log")
)
