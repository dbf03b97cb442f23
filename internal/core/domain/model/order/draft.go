package order

import (
	"errors"
	"fmt"
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
)

var (
	// ErrDraftConsumed is returned when Build is called twice on the same draft.
	ErrDraftConsumed = errors.New("draft has already been built")
)

// Draft is the mutable staging value of an Order. Callers fill its fields
// directly and freeze it with Build. A Draft obtained from Order.ToDraft keeps
// the storage identity of its source, so building and saving it is rejected as
// an edit of a saved order; use CloneForRevision or CloneForDiscontinuing instead.
type Draft struct {
	UUID        kernel.UUID
	OrderNumber string
	Kind        Kind

	Patient     *clinical.Patient
	Concept     *clinical.Concept
	OrderType   *clinical.OrderType
	CareSetting *clinical.CareSetting
	Encounter   *clinical.Encounter
	Orderer     *clinical.Provider

	StartDate      *time.Time
	ScheduledDate  *time.Time
	AutoExpireDate *time.Time
	DateStopped    *time.Time

	Action        Action
	PreviousOrder *kernel.UUID

	Urgency             Urgency
	Instructions        string
	OrderReason         *clinical.Concept
	OrderReasonNonCoded string
	AccessionNumber     string
	CommentToFulfiller  string

	Audit Audit

	// Drug is required for KindDrug and must be nil otherwise.
	Drug *DrugDetails

	id       int64
	consumed bool
}

// NewDraft starts a NEW order of the given kind with a fresh UUID, ROUTINE
// urgency and, for drug orders, an empty SIMPLE dosing payload.
func NewDraft(kind Kind) *Draft {
	d := &Draft{
		UUID:    kernel.NewUUID(),
		Kind:    kind,
		Action:  ActionNew,
		Urgency: UrgencyRoutine,
	}
	if kind == KindDrug {
		d.Drug = NewDrugDetails(nil)
	}
	return d
}

// SetEncounter attaches the encounter and takes the patient from it.
func (d *Draft) SetEncounter(e *clinical.Encounter) *Draft {
	d.Encounter = e
	if e != nil {
		d.Patient = clonePtr(e.Patient)
	}
	return d
}

// ResetIdentity clears the storage identity and the order number and assigns a
// new UUID, so the draft saves as a distinct order.
func (d *Draft) ResetIdentity() *Draft {
	d.id = 0
	d.UUID = kernel.NewUUID()
	d.OrderNumber = ""
	return d
}

// Build freezes the draft into an Order. A draft is consumed by a successful
// Build; building it again returns ErrDraftConsumed.
//
// Structural checks performed:
//   - UUID must be set
//   - Kind, Action and Urgency must be known values
//   - drug orders must carry a payload with a known dosing type; generic orders must not
//
// Clinical completeness (patient, orderer, dosing fields) is not checked here;
// see Order.ValidateRecord.
func (d *Draft) Build() (*Order, error) {
	if d.consumed {
		return nil, ErrDraftConsumed
	}
	o, err := d.freeze()
	if err != nil {
		return nil, err
	}
	d.consumed = true
	return o, nil
}

func (d *Draft) freeze() (*Order, error) {
	if err := errors.Join(
		d.checkUUID(),
		d.Kind.Validate(),
		d.Action.Validate(),
		d.Urgency.Validate(),
		d.checkPayload(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:                  d.id,
		uuid:                d.UUID,
		orderNumber:         d.OrderNumber,
		kind:                d.Kind,
		patient:             clonePtr(d.Patient),
		concept:             clonePtr(d.Concept),
		orderType:           cloneOrderType(d.OrderType),
		careSetting:         clonePtr(d.CareSetting),
		encounter:           clonePtr(d.Encounter),
		orderer:             clonePtr(d.Orderer),
		startDate:           clonePtr(d.StartDate),
		scheduledDate:       clonePtr(d.ScheduledDate),
		autoExpireDate:      clonePtr(d.AutoExpireDate),
		dateStopped:         clonePtr(d.DateStopped),
		action:              d.Action,
		previousOrder:       clonePtr(d.PreviousOrder),
		urgency:             d.Urgency,
		instructions:        d.Instructions,
		orderReason:         clonePtr(d.OrderReason),
		orderReasonNonCoded: d.OrderReasonNonCoded,
		accessionNumber:     d.AccessionNumber,
		commentToFulfiller:  d.CommentToFulfiller,
		audit:               d.Audit.clone(),
		drug:                d.Drug.clone(),
		isConstructed:       true,
	}, nil
}

func (d *Draft) checkUUID() error {
	if d.UUID.IsZero() {
		return errs.NewValueIsRequiredError("uuid")
	}
	return nil
}

func (d *Draft) checkPayload() error {
	switch d.Kind {
	case KindDrug:
		if d.Drug == nil {
			return errs.NewValueIsRequiredError("drug")
		}
		return d.Drug.DosingType.Validate()
	case KindGeneric:
		if d.Drug != nil {
			return errs.NewValueIsInvalidErrorWithCause("drug", fmt.Errorf("a %s order carries no drug payload", d.Kind))
		}
	}
	return nil
}

func cloneOrderType(t *clinical.OrderType) *clinical.OrderType {
	if t == nil {
		return nil
	}
	c := *t
	c.ParentID = clonePtr(t.ParentID)
	return &c
}

// ToDraft copies every field of the order, storage identity included, into a
// new draft.
func (o *Order) ToDraft() *Draft {
	return &Draft{
		id:                  o.id,
		UUID:                o.uuid,
		OrderNumber:         o.orderNumber,
		Kind:                o.kind,
		Patient:             clonePtr(o.patient),
		Concept:             clonePtr(o.concept),
		OrderType:           cloneOrderType(o.orderType),
		CareSetting:         clonePtr(o.careSetting),
		Encounter:           clonePtr(o.encounter),
		Orderer:             clonePtr(o.orderer),
		StartDate:           clonePtr(o.startDate),
		ScheduledDate:       clonePtr(o.scheduledDate),
		AutoExpireDate:      clonePtr(o.autoExpireDate),
		DateStopped:         clonePtr(o.dateStopped),
		Action:              o.action,
		PreviousOrder:       clonePtr(o.previousOrder),
		Urgency:             o.urgency,
		Instructions:        o.instructions,
		OrderReason:         clonePtr(o.orderReason),
		OrderReasonNonCoded: o.orderReasonNonCoded,
		AccessionNumber:     o.accessionNumber,
		CommentToFulfiller:  o.commentToFulfiller,
		Audit:               o.audit.clone(),
		Drug:                o.drug.clone(),
	}
}

// CloneForDiscontinuing starts a DISCONTINUE order against o.
//
// The draft carries over only what identifies the orderable and its context:
// order type, orderer, encounter (and the patient taken from it), care setting,
// concept and, for drug orders, the drug. Dates, instructions, dosing and the
// reason are left for the caller.
//
// Returns:
//   - *Draft: a draft with Action DISCONTINUE and PreviousOrder set to o
func CloneForDiscontinuing(o *Order) *Draft {
	d := NewDraft(o.kind)
	d.OrderType = cloneOrderType(o.orderType)
	d.Orderer = clonePtr(o.orderer)
	d.SetEncounter(clonePtr(o.encounter))
	if d.Patient == nil {
		d.Patient = clonePtr(o.patient)
	}
	d.CareSetting = clonePtr(o.careSetting)
	d.Concept = clonePtr(o.concept)
	if o.drug != nil {
		d.Drug.Drug = clonePtr(o.drug.Drug)
	}
	d.Action = ActionDiscontinue
	prev := o.uuid
	d.PreviousOrder = &prev
	return d
}

// CloneForRevision starts a REVISE order against o: every field of o is copied,
// then the identity is reset and the chain fields point at o.
//
// Returns:
//   - *Draft: a draft with Action REVISE and PreviousOrder set to o
func CloneForRevision(o *Order) *Draft {
	d := o.ToDraft().ResetIdentity()
	d.Action = ActionRevise
	prev := o.uuid
	d.PreviousOrder = &prev
	return d
}
