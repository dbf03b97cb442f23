// Package ordernumber provides an in-process order number generator for
// deployments without a database sequence.
package ordernumber

import (
	"context"
	"strconv"
	"sync/atomic"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
)

const DefaultPrefix = "ORD-"

// TimestampGenerator hands out prefix + n where n starts at the creation
// instant in milliseconds and grows by one per call. Numbers stay increasing
// across restarts as long as fewer than one number per millisecond of
// downtime was issued.
type TimestampGenerator struct {
	prefix string
	last   atomic.Int64
}

// NewTimestampGenerator creates a generator seeded from clock.
// An empty prefix means DefaultPrefix; a nil clock means the system clock.
func NewTimestampGenerator(prefix string, clock kernel.Clock) *TimestampGenerator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if clock == nil {
		clock = kernel.SystemClock{}
	}

	g := &TimestampGenerator{prefix: prefix}
	g.last.Store(clock.Now().UnixMilli())
	return g
}

// NextOrderNumber never blocks and is safe for concurrent use.
func (g *TimestampGenerator) NextOrderNumber(ctx context.Context, _ order.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.prefix + strconv.FormatInt(g.last.Add(1), 10), nil
}
