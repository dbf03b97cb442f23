package postgres

import (
	"context"
	"fmt"

	"orderentry/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// OrderNumberSequence is the database sequence order numbers are drawn from.
const OrderNumberSequence = "order_number_seq"

// SequenceOrderNumberGenerator hands out order numbers from a PostgreSQL
// sequence. nextval is not transactional, so a number is never reused even if
// the save that requested it rolls back.
type SequenceOrderNumberGenerator struct {
	db     *gorm.DB
	prefix string
}

// NewSequenceOrderNumberGenerator creates a generator producing prefix + value,
// "ORD-" when prefix is empty.
func NewSequenceOrderNumberGenerator(db *gorm.DB, prefix string) *SequenceOrderNumberGenerator {
	if prefix == "" {
		prefix = "ORD-"
	}
	return &SequenceOrderNumberGenerator{db: db, prefix: prefix}
}

// Migrate creates the sequence if it does not exist yet.
func (g *SequenceOrderNumberGenerator) Migrate(ctx context.Context) error {
	return g.db.WithContext(ctx).Exec("CREATE SEQUENCE IF NOT EXISTS " + OrderNumberSequence).Error
}

// NextOrderNumber draws the next value of the sequence.
func (g *SequenceOrderNumberGenerator) NextOrderNumber(ctx context.Context, _ order.Context) (string, error) {
	var next int64
	if err := g.db.WithContext(ctx).Raw("SELECT nextval(?::regclass)", OrderNumberSequence).Scan(&next).Error; err != nil {
		return "", fmt.Errorf("failed to draw from %s: %w", OrderNumberSequence, err)
	}
	return fmt.Sprintf("%s%d", g.prefix, next), nil
}
