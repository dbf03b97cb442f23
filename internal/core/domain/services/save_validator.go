package services

import (
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"
)

// SaveRequest is everything the validator needs to decide on one save.
type SaveRequest struct {
	// Order is the order being saved.
	Order *order.Order

	// Previous is the order referenced by Order.PreviousOrder(), resolved by the
	// caller. Nil when the order references none.
	Previous *order.Order

	// ActiveOrders are the patient's active orders at the time of the save. They
	// are searched for a conflicting orderable when the order has no previous
	// order.
	ActiveOrders []*order.Order

	Context order.Context
}

// SavePlan is the outcome of a successful validation.
type SavePlan struct {
	// Order is the order to insert: start date defaulted, order type derived
	// and previous order linked. Its order number is still unassigned unless the
	// context preassigned one.
	Order *order.Order

	// Stopped is the previous order stamped with its stop date, or nil when no
	// existing order is affected.
	Stopped *order.Order

	// AutoDiscontinued reports that Stopped was found among the active orders
	// rather than named by the caller.
	AutoDiscontinued bool
}

// SaveValidator enforces the revision chain rules on save.
//
// Checks, in order, failing on the first violation:
//   - general validity of the order record
//   - the order has no persisted identity
//   - a referenced previous order was resolved
//   - REVISE and DISCONTINUE: previous order present, not a discontinuation,
//     not stopped, expired or voided, same patient, care setting, concept,
//     kind, order type (or sub-type) and drug, and no future discontinue date
//   - NEW and RENEW without a previous order: an active order for the same
//     orderable is discontinued and linked
//   - the order type is set or can be derived from the concept class
type SaveValidator struct {
	refData ports.ReferenceData
	clock   kernel.Clock
}

// NewSaveValidator creates a validator.
//
// Parameters:
//   - refData: order type mapping and hierarchy (required)
//   - clock: source of "now"; nil means the system clock
func NewSaveValidator(refData ports.ReferenceData, clock kernel.Clock) (*SaveValidator, error) {
	if refData == nil {
		return nil, errs.NewValueIsRequiredError("refData")
	}
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &SaveValidator{refData: refData, clock: clock}, nil
}

// Validate runs every rule against the request.
//
// Returns:
//   - *SavePlan: what to persist when every rule passes
//   - error: the first lifecycle error raised, see package order
func (v *SaveValidator) Validate(req SaveRequest) (*SavePlan, error) {
	o := req.Order
	now := v.clock.Now()

	if err := o.ValidateRecord(); err != nil {
		return nil, err
	}

	if o.IsPersisted() {
		return nil, &order.ImmutableOrderError{OrderID: o.ID(), UUID: o.UUID()}
	}

	if o.PreviousOrder() != nil && req.Previous == nil {
		return nil, &order.MissingPreviousOrderError{Action: o.Action()}
	}

	orderType := v.effectiveOrderType(o)
	startDate := o.EffectiveStartDate(now)
	discontinueDate := explicitDiscontinueDate(o, req.Context)
	if discontinueDate != nil && o.StartDate() == nil {
		startDate = *discontinueDate
	}

	var (
		previous *order.Order
		stopAt   time.Time
		auto     bool
	)

	switch {
	case o.Action().RequiresPreviousOrder():
		previous = req.Previous
		if previous == nil && o.PreviousOrder() == nil && o.Action() == order.ActionDiscontinue {
			previous = findConflicting(o, req.ActiveOrders, now)
		}
		if err := v.checkChain(o, previous, orderType, discontinueDate, now); err != nil {
			return nil, err
		}
		stopAt = startDate
		if discontinueDate != nil {
			stopAt = *discontinueDate
		}

	case o.PreviousOrder() == nil:
		previous = findConflicting(o, req.ActiveOrders, now)
		if previous != nil {
			stopAt = startDate
			auto = true
		}

	default:
		// NEW or RENEW already linked by the caller; nothing is stopped.
		if req.Previous != nil && !req.Previous.UUID().IsEqual(*o.PreviousOrder()) {
			return nil, errs.NewValueIsInvalidErrorWithCause("previousOrder", errPreviousOrderNotResolved)
		}
	}

	if orderType == nil {
		concept := o.Concept()
		return nil, &order.UndeterminedOrderTypeError{ConceptID: concept.ID, ConceptClass: concept.Class}
	}

	draft := o.ToDraft()
	draft.StartDate = &startDate
	draft.OrderType = orderType
	if req.Context.OrderNumber != "" {
		draft.OrderNumber = req.Context.OrderNumber
	}
	plan := &SavePlan{AutoDiscontinued: auto}
	if previous != nil {
		id := previous.UUID()
		draft.PreviousOrder = &id
		plan.Stopped = previous.WithDateStopped(stopAt, kernel.UUID{})
	}

	built, err := draft.Build()
	if err != nil {
		return nil, err
	}
	plan.Order = built
	return plan, nil
}

// checkChain applies the REVISE/DISCONTINUE rules against the previous order.
func (v *SaveValidator) checkChain(
	o, previous *order.Order,
	orderType *clinical.OrderType,
	discontinueDate *time.Time,
	now time.Time,
) error {
	if previous == nil {
		return &order.MissingPreviousOrderError{Action: o.Action()}
	}
	if ref := o.PreviousOrder(); ref != nil && !ref.IsEqual(previous.UUID()) {
		return errs.NewValueIsInvalidErrorWithCause("previousOrder", errPreviousOrderNotResolved)
	}

	if previous.Action() == order.ActionDiscontinue {
		return &order.CannotActOnDiscontinuationOrderError{PreviousUUID: previous.UUID(), Action: o.Action()}
	}

	checkAt := now
	if discontinueDate != nil {
		checkAt = *discontinueDate
	}
	if reason, terminal := previous.TerminalReason(checkAt); terminal {
		return &order.TerminalPreviousOrderError{PreviousUUID: previous.UUID(), Reason: reason, At: checkAt}
	}

	if !clinical.Same(previous.Patient(), o.Patient()) {
		return &order.PatientMismatchError{Mismatch: mismatch("patient", previous.Patient(), o.Patient())}
	}
	if !clinical.Same(previous.CareSetting(), o.CareSetting()) {
		return &order.CareSettingMismatchError{Mismatch: mismatch("careSetting", previous.CareSetting(), o.CareSetting())}
	}
	if !clinical.Same(previous.Concept(), o.Concept()) {
		return &order.ConceptMismatchError{Mismatch: mismatch("concept", previous.Concept(), o.Concept())}
	}

	if previous.Kind() != o.Kind() {
		return &order.ClassMismatchError{Mismatch: order.Mismatch{
			Field: "kind", Previous: previous.Kind().String(), New: o.Kind().String(),
		}}
	}
	if prevType := v.effectiveOrderType(previous); prevType != nil && orderType != nil &&
		!v.refData.IsSubtype(*orderType, *prevType) {
		return &order.TypeMismatchError{Mismatch: mismatch("orderType", prevType, orderType)}
	}

	if o.IsDrugOrder() {
		prevDrug, newDrug := previous.Drug().Drug, o.Drug().Drug
		if prevDrug != nil && newDrug != nil && !clinical.Same(prevDrug, newDrug) {
			return &order.DrugMismatchError{Mismatch: mismatch("drug", prevDrug, newDrug)}
		}
	}

	if discontinueDate != nil && discontinueDate.After(now) {
		return &order.FutureDiscontinueDateError{DiscontinueDate: *discontinueDate, Now: now}
	}
	return nil
}

// effectiveOrderType is the order's own type, or the type mapped from its
// concept class. Nil when neither exists.
func (v *SaveValidator) effectiveOrderType(o *order.Order) *clinical.OrderType {
	if t := o.OrderType(); t != nil {
		return t
	}
	concept := o.Concept()
	if concept == nil {
		return nil
	}
	if t, ok := v.refData.OrderTypeForConcept(*concept); ok {
		return &t
	}
	return nil
}

// explicitDiscontinueDate is the stop instant the caller asked for: the
// context date, or the start date of a discontinuation order.
func explicitDiscontinueDate(o *order.Order, oc order.Context) *time.Time {
	if oc.DiscontinueDate != nil {
		at := *oc.DiscontinueDate
		return &at
	}
	if o.Action() == order.ActionDiscontinue {
		return o.StartDate()
	}
	return nil
}

// findConflicting returns the active order of the same patient and care
// setting with the same orderable as o.
func findConflicting(o *order.Order, active []*order.Order, now time.Time) *order.Order {
	for _, candidate := range active {
		if candidate == nil || candidate.IsEqual(o) || !candidate.IsActive(now) {
			continue
		}
		if !clinical.Same(candidate.Patient(), o.Patient()) || !clinical.Same(candidate.CareSetting(), o.CareSetting()) {
			continue
		}
		if candidate.HasSameOrderableAs(o) {
			return candidate
		}
	}
	return nil
}

func mismatch[T clinical.Identifiable](field string, previous, current *T) order.Mismatch {
	return order.Mismatch{Field: field, Previous: clinical.IDOf(previous).String(), New: clinical.IDOf(current).String()}
}
