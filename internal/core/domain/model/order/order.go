package order

import (
	"errors"
	"math"
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not produced by
	// Draft.Build or Restore. Zero-value orders never reach the validator or persistence.
	ErrOrderIsNotConstructed = errors.New("Order must be created via Draft.Build or Restore")
)

// Audit holds the bookkeeping fields owned by the persistence collaborator.
// The engine carries them but never interprets them, except Voided.
type Audit struct {
	Creator     kernel.UUID
	DateCreated time.Time
	ChangedBy   *kernel.UUID
	DateChanged *time.Time
	Voided      bool
	VoidedBy    *kernel.UUID
	DateVoided  *time.Time
	VoidReason  string
}

func (a Audit) clone() Audit {
	c := a
	c.ChangedBy = clonePtr(a.ChangedBy)
	c.DateChanged = clonePtr(a.DateChanged)
	c.VoidedBy = clonePtr(a.VoidedBy)
	c.DateVoided = clonePtr(a.DateVoided)
	return c
}

// Order is a frozen clinical instruction. It is the aggregate root of the
// lifecycle: once it carries a persisted identity its clinical and temporal
// fields never change, and corrections are new orders chained to it through
// PreviousOrder.
//
// Order follows these invariants:
//   - Can only be created through Draft.Build (new orders) or Restore (persisted orders)
//   - Kind is GENERIC or DRUG; DRUG orders always carry a DrugDetails payload
//   - PreviousOrder is a reference by UUID, resolved through the repository
//   - Only the stop date and audit fields of a persisted order may be replaced,
//     and only by producing a new value through WithDateStopped
//
// Accessors returning pointers hand out copies, so callers cannot reach into
// the frozen value.
type Order struct {
	// id is the storage identity; zero until persisted
	id int64

	uuid        kernel.UUID
	orderNumber string
	kind        Kind

	patient     *clinical.Patient
	concept     *clinical.Concept
	orderType   *clinical.OrderType
	careSetting *clinical.CareSetting
	encounter   *clinical.Encounter
	orderer     *clinical.Provider

	startDate      *time.Time
	scheduledDate  *time.Time
	autoExpireDate *time.Time
	dateStopped    *time.Time

	action        Action
	previousOrder *kernel.UUID

	urgency             Urgency
	instructions        string
	orderReason         *clinical.Concept
	orderReasonNonCoded string
	accessionNumber     string
	commentToFulfiller  string

	audit Audit

	// drug is set for KindDrug only
	drug *DrugDetails

	isConstructed bool
}

// Restore rebuilds a persisted order from storage. It runs the same structural
// checks as Draft.Build and additionally requires a storage identity.
//
// Parameters:
//   - id: storage identity (must be positive)
//   - d: the stored attributes
//
// Returns:
//   - *Order: the restored order, reporting IsPersisted() == true
//   - error: structural error if any attribute is invalid
func Restore(id int64, d Draft) (*Order, error) {
	if id <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("id", id, 1, int64(math.MaxInt64))
	}
	d.id = id
	return d.freeze()
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by UUID.
func (o *Order) IsEqual(other *Order) bool {
	return o != nil && other != nil && o.uuid.IsEqual(other.uuid)
}

// ID returns the storage identity, zero for an order that was never persisted.
func (o *Order) ID() int64 { return o.id }

// IsPersisted reports whether the order already has a storage identity.
func (o *Order) IsPersisted() bool { return o.id != 0 }

func (o *Order) UUID() kernel.UUID { return o.uuid }
func (o *Order) OrderNumber() string { return o.orderNumber }
func (o *Order) Kind() Kind { return o.kind }

// IsDrugOrder reports whether the order is a medication order.
func (o *Order) IsDrugOrder() bool { return o.kind == KindDrug }

func (o *Order) Patient() *clinical.Patient { return clonePtr(o.patient) }
func (o *Order) Concept() *clinical.Concept { return clonePtr(o.concept) }
func (o *Order) OrderType() *clinical.OrderType { return clonePtr(o.orderType) }
func (o *Order) CareSetting() *clinical.CareSetting { return clonePtr(o.careSetting) }
func (o *Order) Encounter() *clinical.Encounter { return clonePtr(o.encounter) }
func (o *Order) Orderer() *clinical.Provider { return clonePtr(o.orderer) }

func (o *Order) StartDate() *time.Time { return clonePtr(o.startDate) }
func (o *Order) ScheduledDate() *time.Time { return clonePtr(o.scheduledDate) }
func (o *Order) AutoExpireDate() *time.Time { return clonePtr(o.autoExpireDate) }
func (o *Order) DateStopped() *time.Time { return clonePtr(o.dateStopped) }

func (o *Order) Action() Action { return o.action }

// PreviousOrder returns the UUID of the order this one supersedes or
// discontinues, or nil for NEW orders.
func (o *Order) PreviousOrder() *kernel.UUID { return clonePtr(o.previousOrder) }

func (o *Order) Urgency() Urgency { return o.urgency }
func (o *Order) Instructions() string { return o.instructions }
func (o *Order) OrderReason() *clinical.Concept { return clonePtr(o.orderReason) }
func (o *Order) OrderReasonNonCoded() string { return o.orderReasonNonCoded }
func (o *Order) AccessionNumber() string { return o.accessionNumber }
func (o *Order) CommentToFulfiller() string { return o.commentToFulfiller }
func (o *Order) Audit() Audit { return o.audit.clone() }
func (o *Order) Voided() bool { return o.audit.Voided }

// Drug returns a copy of the medication payload, nil for generic orders.
func (o *Order) Drug() *DrugDetails { return o.drug.clone() }

// EffectiveStartDate is the start date, or now when the order has none.
func (o *Order) EffectiveStartDate(now time.Time) time.Time {
	if o.startDate != nil {
		return *o.startDate
	}
	return now
}

// WithDateStopped returns a copy of a persisted order stamped with a stop date.
// This is the only change applied to an order after it has been saved; the
// receiver is left untouched so nothing is observable before the commit.
//
// Parameters:
//   - at: the stop instant
//   - by: the user recorded as ChangedBy, zero to leave the audit untouched
//
// Returns:
//   - *Order: the stamped copy
func (o *Order) WithDateStopped(at time.Time, by kernel.UUID) *Order {
	c := o.ToDraft()
	c.DateStopped = &at
	if !by.IsZero() {
		c.Audit.ChangedBy = &by
		c.Audit.DateChanged = &at
	}
	stopped, _ := c.freeze()
	return stopped
}

// WithOrderNumber returns a copy of an unsaved order carrying the number
// handed out by the generator.
func (o *Order) WithOrderNumber(number string) (*Order, error) {
	if o.IsPersisted() {
		return nil, &ImmutableOrderError{OrderID: o.id, UUID: o.uuid}
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	d := o.ToDraft()
	d.OrderNumber = number
	return d.freeze()
}
