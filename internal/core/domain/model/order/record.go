package order

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"orderentry/internal/core/domain/model/clinical"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves the package.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(validateRecordDates, record{})
}

// record is the view of an order checked for general validity.
type record struct {
	Patient     *clinical.Patient     `json:"patient" validate:"required"`
	Orderer     *clinical.Provider    `json:"orderer" validate:"required"`
	Encounter   *clinical.Encounter   `json:"encounter" validate:"required"`
	Concept     *clinical.Concept     `json:"concept" validate:"required"`
	CareSetting *clinical.CareSetting `json:"careSetting" validate:"required"`

	Urgency        string     `json:"urgency"`
	StartDate      *time.Time `json:"startDate"`
	ScheduledDate  *time.Time `json:"scheduledDate" validate:"required_if=Urgency ON_SCHEDULED_DATE"`
	AutoExpireDate *time.Time `json:"autoExpireDate"`

	Drug *drugRecord `json:"drug"`
}

type drugRecord struct {
	DosingType         string                   `json:"dosingType"`
	Dose               *float64                 `json:"dose" validate:"required_if=DosingType SIMPLE"`
	DoseUnits          *clinical.Concept        `json:"doseUnits" validate:"required_if=DosingType SIMPLE"`
	Route              *clinical.Concept        `json:"route" validate:"required_if=DosingType SIMPLE"`
	Frequency          *clinical.OrderFrequency `json:"frequency" validate:"required_if=DosingType SIMPLE"`
	DosingInstructions string                   `json:"dosingInstructions" validate:"required_if=DosingType FREE_TEXT"`
	Quantity           *float64                 `json:"quantity" validate:"omitempty,gt=0"`
	QuantityUnits      *clinical.Concept        `json:"quantityUnits" validate:"required_with=Quantity"`
	NumRefills         *int                     `json:"numRefills" validate:"omitempty,gte=0"`
	Duration           *int                     `json:"duration" validate:"omitempty,gt=0"`
	DurationUnits      *clinical.Concept        `json:"durationUnits" validate:"required_with=Duration"`
}

func validateRecordDates(sl validator.StructLevel) {
	r := sl.Current().Interface().(record)
	if r.StartDate != nil && r.AutoExpireDate != nil && r.AutoExpireDate.Before(*r.StartDate) {
		sl.ReportError(r.AutoExpireDate, "autoExpireDate", "AutoExpireDate", "after_start", "")
	}
	if r.Encounter != nil && r.Encounter.Patient != nil && r.Patient != nil &&
		!clinical.Same(r.Encounter.Patient, r.Patient) {
		sl.ReportError(r.Patient, "patient", "Patient", "encounter_patient", "")
	}
}

func (o *Order) record() record {
	r := record{
		Patient:        o.patient,
		Orderer:        o.orderer,
		Encounter:      o.encounter,
		Concept:        o.concept,
		CareSetting:    o.careSetting,
		Urgency:        o.urgency.String(),
		StartDate:      o.startDate,
		ScheduledDate:  o.scheduledDate,
		AutoExpireDate: o.autoExpireDate,
	}
	// a discontinuation carries no dosing of its own
	if d := o.drug; d != nil && o.action != ActionDiscontinue {
		r.Drug = &drugRecord{
			DosingType:         d.DosingType.String(),
			Dose:               d.Dose,
			DoseUnits:          d.DoseUnits,
			Route:              d.Route,
			Frequency:          d.Frequency,
			DosingInstructions: d.DosingInstructions,
			Quantity:           d.Quantity,
			QuantityUnits:      d.QuantityUnits,
			NumRefills:         d.NumRefills,
			Duration:           d.Duration,
			DurationUnits:      d.DurationUnits,
		}
	}
	return r
}

// ValidateRecord checks general validity: required references, scheduling
// and dosing completeness, date ordering and the encounter patient.
//
// Returns:
//   - nil if the order is complete
//   - *ValidationError listing every failed field otherwise
func (o *Order) ValidateRecord() error {
	if err := o.Validate(); err != nil {
		return err
	}
	err := validate.Struct(o.record())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe.Namespace()), Rule: fe.Tag()})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
