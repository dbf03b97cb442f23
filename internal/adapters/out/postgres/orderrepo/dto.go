// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders are stored in a single table; drug orders fill the drug_ columns. Reference
// values are kept as their identifiers plus the few attributes the lifecycle rules
// read back (concept class, order type parent, care setting name).
package orderrepo

import (
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting orders.
// The numeric ID is the storage identity; UUID and OrderNumber are unique.
type OrderDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	OrderNumber string    `gorm:"size:50;uniqueIndex"`
	Kind        string    `gorm:"size:16"`

	PatientID         uuid.UUID  `gorm:"type:uuid;index:idx_orders_patient_concept"`
	ConceptID         *uuid.UUID `gorm:"type:uuid;index:idx_orders_patient_concept"`
	ConceptClass      string     `gorm:"size:100"`
	OrderTypeID       *uuid.UUID `gorm:"type:uuid;index"`
	OrderTypeName     string     `gorm:"size:100"`
	OrderTypeParentID *uuid.UUID `gorm:"type:uuid"`
	CareSettingID     *uuid.UUID `gorm:"type:uuid"`
	CareSettingName   string     `gorm:"size:50"`
	EncounterID       *uuid.UUID `gorm:"type:uuid"`
	OrdererID         *uuid.UUID `gorm:"type:uuid"`

	StartDate      *time.Time `gorm:"index"`
	ScheduledDate  *time.Time
	AutoExpireDate *time.Time
	DateStopped    *time.Time

	Action          string     `gorm:"size:16"`
	PreviousOrderID *uuid.UUID `gorm:"type:uuid;index"`

	Urgency             string     `gorm:"size:20"`
	Instructions        string     `gorm:"type:text"`
	OrderReasonID       *uuid.UUID `gorm:"type:uuid"`
	OrderReasonNonCoded string
	AccessionNumber     string
	CommentToFulfiller  string

	Drug  DrugDTO  `gorm:"embedded;embeddedPrefix:drug_"`
	Audit AuditDTO `gorm:"embedded"`
}

// TableName specifies the database table name for orders.
func (OrderDTO) TableName() string {
	return "orders"
}

// DrugDTO holds the medication columns, all empty for generic orders.
type DrugDTO struct {
	FormulationID      *uuid.UUID `gorm:"type:uuid"`
	Name               string
	ConceptID          *uuid.UUID `gorm:"type:uuid"`
	ConceptClass       string
	Dose               *float64
	DoseUnitsID        *uuid.UUID `gorm:"type:uuid"`
	FrequencyID        *uuid.UUID `gorm:"type:uuid"`
	FrequencyConceptID *uuid.UUID `gorm:"type:uuid"`
	AsNeeded           bool
	AsNeededCondition  string
	Quantity           *float64
	QuantityUnitsID    *uuid.UUID `gorm:"type:uuid"`
	DosingType         string     `gorm:"size:16"`
	DosingInstructions string
	NumRefills         *int
	Duration           *int
	DurationUnitsID    *uuid.UUID `gorm:"type:uuid"`
	RouteID            *uuid.UUID `gorm:"type:uuid"`
}

// AuditDTO holds the bookkeeping columns.
type AuditDTO struct {
	Creator     *uuid.UUID `gorm:"type:uuid"`
	DateCreated time.Time
	ChangedBy   *uuid.UUID `gorm:"type:uuid"`
	DateChanged *time.Time
	Voided      bool `gorm:"index"`
	VoidedBy    *uuid.UUID `gorm:"type:uuid"`
	DateVoided  *time.Time
	VoidReason  string
}

// fromDomain converts an order to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                  o.ID(),
		UUID:                o.UUID().Bytes(),
		OrderNumber:         o.OrderNumber(),
		Kind:                o.Kind().String(),
		PatientID:           clinical.IDOf(o.Patient()).Bytes(),
		ConceptID:           refID(o.Concept()),
		OrderTypeID:         refID(o.OrderType()),
		CareSettingID:       refID(o.CareSetting()),
		EncounterID:         refID(o.Encounter()),
		OrdererID:           refID(o.Orderer()),
		StartDate:           o.StartDate(),
		ScheduledDate:       o.ScheduledDate(),
		AutoExpireDate:      o.AutoExpireDate(),
		DateStopped:         o.DateStopped(),
		Action:              o.Action().String(),
		PreviousOrderID:     rawID(o.PreviousOrder()),
		Urgency:             o.Urgency().String(),
		Instructions:        o.Instructions(),
		OrderReasonID:       refID(o.OrderReason()),
		OrderReasonNonCoded: o.OrderReasonNonCoded(),
		AccessionNumber:     o.AccessionNumber(),
		CommentToFulfiller:  o.CommentToFulfiller(),
		Audit:               auditFromDomain(o.Audit()),
	}
	if c := o.Concept(); c != nil {
		dto.ConceptClass = c.Class
	}
	if t := o.OrderType(); t != nil {
		dto.OrderTypeName = t.Name
		dto.OrderTypeParentID = rawID(t.ParentID)
	}
	if cs := o.CareSetting(); cs != nil {
		dto.CareSettingName = cs.Name
	}
	if d := o.Drug(); d != nil {
		dto.Drug = drugFromDomain(d)
	}
	return dto
}

func drugFromDomain(d *order.DrugDetails) DrugDTO {
	dto := DrugDTO{
		FormulationID:      refID(d.Drug),
		Dose:               d.Dose,
		DoseUnitsID:        refID(d.DoseUnits),
		FrequencyID:        refID(d.Frequency),
		AsNeeded:           d.AsNeeded,
		AsNeededCondition:  d.AsNeededCondition,
		Quantity:           d.Quantity,
		QuantityUnitsID:    refID(d.QuantityUnits),
		DosingType:         d.DosingType.String(),
		DosingInstructions: d.DosingInstructions,
		NumRefills:         d.NumRefills,
		Duration:           d.Duration,
		DurationUnitsID:    refID(d.DurationUnits),
		RouteID:            refID(d.Route),
	}
	if d.Drug != nil {
		dto.Name = d.Drug.Name
		if c := d.Drug.Concept; c != nil {
			dto.ConceptID = refID(c)
			dto.ConceptClass = c.Class
		}
	}
	if d.Frequency != nil {
		dto.FrequencyConceptID = refID(d.Frequency.Concept)
	}
	return dto
}

func auditFromDomain(a order.Audit) AuditDTO {
	var creator *uuid.UUID
	if !a.Creator.IsZero() {
		raw := a.Creator.Bytes()
		creator = &raw
	}
	return AuditDTO{
		Creator:     creator,
		DateCreated: a.DateCreated,
		ChangedBy:   rawID(a.ChangedBy),
		DateChanged: a.DateChanged,
		Voided:      a.Voided,
		VoidedBy:    rawID(a.VoidedBy),
		DateVoided:  a.DateVoided,
		VoidReason:  a.VoidReason,
	}
}

// toDomain rebuilds a persisted order from its row.
func toDomain(dto OrderDTO) (*order.Order, error) {
	var d order.Draft
	var err error

	if d.UUID, err = kernel.UUIDFromBytes(dto.UUID[:]); err != nil {
		return nil, err
	}
	d.OrderNumber = dto.OrderNumber
	if d.Kind, err = order.ParseKind(dto.Kind); err != nil {
		return nil, err
	}
	if d.Action, err = order.ParseAction(dto.Action); err != nil {
		return nil, err
	}
	if d.Urgency, err = order.ParseUrgency(dto.Urgency); err != nil {
		return nil, err
	}

	if dto.PatientID != uuid.Nil {
		d.Patient = &clinical.Patient{ID: toKernel(dto.PatientID)}
	}
	if id := optional(dto.ConceptID); id != nil {
		d.Concept = &clinical.Concept{ID: *id, Class: dto.ConceptClass}
	}
	if id := optional(dto.OrderTypeID); id != nil {
		d.OrderType = &clinical.OrderType{ID: *id, Name: dto.OrderTypeName, ParentID: optional(dto.OrderTypeParentID)}
	}
	if id := optional(dto.CareSettingID); id != nil {
		d.CareSetting = &clinical.CareSetting{ID: *id, Name: dto.CareSettingName}
	}
	if id := optional(dto.EncounterID); id != nil {
		d.Encounter = &clinical.Encounter{ID: *id, Patient: d.Patient}
	}
	if id := optional(dto.OrdererID); id != nil {
		d.Orderer = &clinical.Provider{ID: *id}
	}
	if id := optional(dto.OrderReasonID); id != nil {
		d.OrderReason = &clinical.Concept{ID: *id}
	}

	d.StartDate = dto.StartDate
	d.ScheduledDate = dto.ScheduledDate
	d.AutoExpireDate = dto.AutoExpireDate
	d.DateStopped = dto.DateStopped
	d.PreviousOrder = optional(dto.PreviousOrderID)
	d.Instructions = dto.Instructions
	d.OrderReasonNonCoded = dto.OrderReasonNonCoded
	d.AccessionNumber = dto.AccessionNumber
	d.CommentToFulfiller = dto.CommentToFulfiller
	d.Audit = auditToDomain(dto.Audit)

	if d.Kind == order.KindDrug {
		if d.Drug, err = drugToDomain(dto.Drug); err != nil {
			return nil, err
		}
	}

	return order.Restore(dto.ID, d)
}

func drugToDomain(dto DrugDTO) (*order.DrugDetails, error) {
	dosingType, err := order.ParseDosingType(dto.DosingType)
	if err != nil {
		return nil, err
	}

	d := &order.DrugDetails{
		Dose:               dto.Dose,
		AsNeeded:           dto.AsNeeded,
		AsNeededCondition:  dto.AsNeededCondition,
		Quantity:           dto.Quantity,
		DosingType:         dosingType,
		DosingInstructions: dto.DosingInstructions,
		NumRefills:         dto.NumRefills,
		Duration:           dto.Duration,
		DoseUnits:          conceptRef(dto.DoseUnitsID),
		QuantityUnits:      conceptRef(dto.QuantityUnitsID),
		DurationUnits:      conceptRef(dto.DurationUnitsID),
		Route:              conceptRef(dto.RouteID),
	}
	if id := optional(dto.FormulationID); id != nil {
		d.Drug = &clinical.Drug{ID: *id, Name: dto.Name}
		if cid := optional(dto.ConceptID); cid != nil {
			d.Drug.Concept = &clinical.Concept{ID: *cid, Class: dto.ConceptClass}
		}
	}
	if id := optional(dto.FrequencyID); id != nil {
		d.Frequency = &clinical.OrderFrequency{ID: *id, Concept: conceptRef(dto.FrequencyConceptID)}
	}
	return d, nil
}

func auditToDomain(dto AuditDTO) order.Audit {
	a := order.Audit{
		DateCreated: dto.DateCreated,
		ChangedBy:   optional(dto.ChangedBy),
		DateChanged: dto.DateChanged,
		Voided:      dto.Voided,
		VoidedBy:    optional(dto.VoidedBy),
		DateVoided:  dto.DateVoided,
		VoidReason:  dto.VoidReason,
	}
	if id := optional(dto.Creator); id != nil {
		a.Creator = *id
	}
	return a
}

func refID[T clinical.Identifiable](ref *T) *uuid.UUID {
	if ref == nil {
		return nil
	}
	raw := (*ref).Identity().Bytes()
	return &raw
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil || id.IsZero() {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

// optional maps a nullable column back to a kernel UUID. Nil and the nil UUID
// both read back as absent.
func optional(raw *uuid.UUID) *kernel.UUID {
	if raw == nil || *raw == uuid.Nil {
		return nil
	}
	id := toKernel(*raw)
	return &id
}

func conceptRef(raw *uuid.UUID) *clinical.Concept {
	id := optional(raw)
	if id == nil {
		return nil
	}
	return &clinical.Concept{ID: *id}
}

// toKernel converts a non-nil column value; the bytes of a uuid.UUID are
// always a valid length.
func toKernel(raw uuid.UUID) kernel.UUID {
	id, _ := kernel.UUIDFromBytes(raw[:])
	return id
}
