package model

import "errors"

// ErrMealNotFound is returned by meal repositories for unknown ids.
var ErrMealNotFound = errors.New("meal not found")
