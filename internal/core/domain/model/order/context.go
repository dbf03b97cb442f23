package order

import "time"

// Context carries per-save options supplied by the caller.
type Context struct {
	// OrderNumber, when set, is used verbatim instead of asking the generator.
	OrderNumber string

	// DiscontinueDate is the explicit stop instant of a discontinuation. It
	// must not lie in the future.
	DiscontinueDate *time.Time
}
