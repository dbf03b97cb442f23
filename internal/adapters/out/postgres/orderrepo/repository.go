package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db    *gorm.DB
	clock kernel.Clock
}

// NewGormOrderRepository creates a new GORM order repository.
// A nil clock stamps creation dates with the system time.
func NewGormOrderRepository(db *gorm.DB, clock kernel.Clock) *GormOrderRepository {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &GormOrderRepository{
		db:    db,
		clock: clock,
	}
}

// Add inserts a new order and returns it as stored.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) (*order.Order, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}
	if aggregate.IsPersisted() {
		return nil, &order.ImmutableOrderError{OrderID: aggregate.ID(), UUID: aggregate.UUID()}
	}

	dto := fromDomain(aggregate)
	if dto.Audit.DateCreated.IsZero() {
		dto.Audit.DateCreated = r.clock.Now()
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStopDate writes date_stopped and the change audit of a stored order.
func (r *GormOrderRepository) UpdateStopDate(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.IsPersisted() {
		return errs.NewValueIsRequiredError("order.id")
	}

	audit := auditFromDomain(aggregate.Audit())
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID()).
		Updates(map[string]any{
			"date_stopped": aggregate.DateStopped(),
			"changed_by":   audit.ChangedBy,
			"date_changed": audit.DateChanged,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.UUID().String())
	}
	return nil
}

// Get retrieves an order by UUID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.getByUUID(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order by UUID and holds a row lock on it until the
// surrounding transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.getByUUID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) getByUUID(tx *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := tx.First(&dto, "uuid = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderNumber retrieves an order by its order number.
func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderNumber", number)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindActive retrieves the orders active for the filter, oldest start first.
// The SQL narrows the rows; the final decision is taken by order.IsActive so
// that stored and in-memory evaluation cannot drift apart.
func (r *GormOrderRepository) FindActive(ctx context.Context, filter ports.ActiveOrdersFilter) ([]*order.Order, error) {
	if err := filter.Patient.Validate(); err != nil {
		return nil, err
	}

	at := filter.AsOf
	if at.IsZero() {
		at = r.clock.Now()
	}

	query := r.db.WithContext(ctx).
		Where("patient_id = ?", filter.Patient.Bytes()).
		Where("voided = ?", false).
		Where("action <> ?", order.ActionDiscontinue.String()).
		Where("(start_date IS NULL OR start_date <= ?)", at).
		Where("(date_stopped IS NULL OR date_stopped > ?)", at).
		Where("(auto_expire_date IS NULL OR auto_expire_date > ?)", at)

	if len(filter.OrderTypes) > 0 {
		ids := make([]uuid.UUID, 0, len(filter.OrderTypes))
		for _, id := range filter.OrderTypes {
			ids = append(ids, id.Bytes())
		}
		query = query.Where("order_type_id IN ?", ids)
	}
	if filter.CareSetting != nil {
		query = query.Where("care_setting_id = ?", filter.CareSetting.Bytes())
	}

	var dtos []OrderDTO
	if err := query.Order("start_date").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toActive(dtos, at)
}

// FindByConcept retrieves every non-voided order of the patient for the
// concept, newest first.
func (r *GormOrderRepository) FindByConcept(ctx context.Context, patient, concept kernel.UUID) ([]*order.Order, error) {
	if err := errors.Join(patient.Validate(), concept.Validate()); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND concept_id = ? AND voided = ?", patient.Bytes(), concept.Bytes(), false).
		Order("start_date DESC").
		Order("id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// Delete removes the order row.
func (r *GormOrderRepository) Delete(ctx context.Context, aggregate *order.Order) error {
	if !aggregate.IsPersisted() {
		return errs.NewValueIsRequiredError("order.id")
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", aggregate.ID())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.UUID().String())
	}
	return nil
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func toActive(dtos []OrderDTO, at time.Time) ([]*order.Order, error) {
	all, err := toDomainAll(dtos)
	if err != nil {
		return nil, err
	}

	active := all[:0]
	for _, o := range all {
		if o.IsActive(at) {
			active = append(active, o)
		}
	}
	return active, nil
}
