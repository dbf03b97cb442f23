package services

import "errors"

var errPreviousOrderNotResolved = errors.New("previous order does not match the order it references")
