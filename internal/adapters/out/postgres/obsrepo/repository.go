package obsrepo

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormObservationRepository implements ports.ObservationRepository using GORM.
type GormObservationRepository struct {
	db *gorm.DB
}

// NewGormObservationRepository creates a new GORM observation repository.
func NewGormObservationRepository(db *gorm.DB) *GormObservationRepository {
	return &GormObservationRepository{db: db}
}

// DeleteByOrder removes the observations recorded for the order.
func (r *GormObservationRepository) DeleteByOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).Delete(&ObservationDTO{}, "order_id = ?", orderID.Bytes())
	return result.RowsAffected, result.Error
}

// DetachOrder clears the order reference of the observations recorded for the order.
func (r *GormObservationRepository) DetachOrder(ctx context.Context, orderID kernel.UUID) (int64, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&ObservationDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Update("order_id", nil)
	return result.RowsAffected, result.Error
}
