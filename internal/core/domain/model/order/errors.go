package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderentry/internal/core/domain/model/kernel"
)

// ErrLifecycle is matched (errors.Is) by every error in this file. Callers use it
// to tell business-rule rejections apart from infrastructure failures.
var ErrLifecycle = errors.New("order lifecycle rule violated")

var (
	ErrInvalidOrder               = fmt.Errorf("%w: order is not valid", ErrLifecycle)
	ErrImmutableOrder             = fmt.Errorf("%w: cannot edit an existing order, you need to revise it instead", ErrLifecycle)
	ErrMissingPreviousOrder       = fmt.Errorf("%w: previous order is required", ErrLifecycle)
	ErrCannotActOnDiscontinuation = fmt.Errorf("%w: an order with action DISCONTINUE cannot be discontinued or revised", ErrLifecycle)
	ErrTerminalPreviousOrder      = fmt.Errorf("%w: cannot discontinue an order that is already stopped, expired or voided", ErrLifecycle)
	ErrPatientMismatch            = fmt.Errorf("%w: patient mismatch", ErrLifecycle)
	ErrCareSettingMismatch        = fmt.Errorf("%w: care setting mismatch", ErrLifecycle)
	ErrConceptMismatch            = fmt.Errorf("%w: concept mismatch", ErrLifecycle)
	ErrTypeMismatch               = fmt.Errorf("%w: order type mismatch", ErrLifecycle)
	ErrClassMismatch              = fmt.Errorf("%w: order class mismatch", ErrLifecycle)
	ErrDrugMismatch               = fmt.Errorf("%w: drug mismatch", ErrLifecycle)
	ErrFutureDiscontinueDate      = fmt.Errorf("%w: discontinue date cannot be in the future", ErrLifecycle)
	ErrUndeterminedOrderType      = fmt.Errorf("%w: cannot determine the order type of the order", ErrLifecycle)
)

// FieldError names one failed general-validity rule.
type FieldError struct {
	Field string
	Rule  string
}

// ValidationError lists every general-validity rule the order breaks.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return fmt.Sprintf("order is not valid: %s", strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidOrder }

// HasField reports whether field is among the failures.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ImmutableOrderError is raised when an order that already has a persisted
// identity is submitted for saving again.
type ImmutableOrderError struct {
	OrderID int64
	UUID    kernel.UUID
}

func (e *ImmutableOrderError) Error() string {
	return fmt.Sprintf("cannot edit an existing order, you need to revise it instead (order id %d, uuid %s)", e.OrderID, e.UUID)
}

func (e *ImmutableOrderError) Unwrap() error { return ErrImmutableOrder }

type MissingPreviousOrderError struct {
	Action Action
}

func (e *MissingPreviousOrderError) Error() string {
	return fmt.Sprintf("previous order is required for an order with action %s", e.Action)
}

func (e *MissingPreviousOrderError) Unwrap() error { return ErrMissingPreviousOrder }

// CannotActOnDiscontinuationOrderError is raised when the previous order is
// itself a discontinuation.
type CannotActOnDiscontinuationOrderError struct {
	PreviousUUID kernel.UUID
	Action       Action
}

func (e *CannotActOnDiscontinuationOrderError) Error() string {
	verb := "discontinued"
	if e.Action == ActionRevise {
		verb = "revised"
	}
	return fmt.Sprintf("an order with action %s cannot be %s (order %s)", ActionDiscontinue, verb, e.PreviousUUID)
}

func (e *CannotActOnDiscontinuationOrderError) Unwrap() error { return ErrCannotActOnDiscontinuation }

// TerminalReason says why a previous order can no longer be acted on.
type TerminalReason string

const (
	TerminalStopped TerminalReason = "stopped"
	TerminalExpired TerminalReason = "expired"
	TerminalVoided  TerminalReason = "voided"
)

type TerminalPreviousOrderError struct {
	PreviousUUID kernel.UUID
	Reason       TerminalReason
	At           time.Time
}

func (e *TerminalPreviousOrderError) Error() string {
	return fmt.Sprintf("cannot discontinue an order that is already stopped, expired or voided (order %s is %s as of %s)",
		e.PreviousUUID, e.Reason, e.At.Format(time.RFC3339))
}

func (e *TerminalPreviousOrderError) Unwrap() error { return ErrTerminalPreviousOrder }

// Mismatch carries the field and both sides of a chain-integrity failure.
type Mismatch struct {
	Field    string
	Previous string
	New      string
}

func (m Mismatch) message() string {
	return fmt.Sprintf("the %s of the previous order and the new one order don't match (previous %s, new %s)",
		m.Field, m.Previous, m.New)
}

type PatientMismatchError struct{ Mismatch }

func (e *PatientMismatchError) Error() string { return e.message() }
func (e *PatientMismatchError) Unwrap() error { return ErrPatientMismatch }

type CareSettingMismatchError struct{ Mismatch }

func (e *CareSettingMismatchError) Error() string { return e.message() }
func (e *CareSettingMismatchError) Unwrap() error { return ErrCareSettingMismatch }

type ConceptMismatchError struct{ Mismatch }

func (e *ConceptMismatchError) Error() string { return e.message() }
func (e *ConceptMismatchError) Unwrap() error { return ErrConceptMismatch }

// TypeMismatchError is raised when the new order type is neither the previous
// order type nor one of its declared sub-types.
type TypeMismatchError struct{ Mismatch }

func (e *TypeMismatchError) Error() string { return e.message() }
func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ClassMismatchError is raised when the order kinds differ (drug vs generic).
type ClassMismatchError struct{ Mismatch }

func (e *ClassMismatchError) Error() string { return e.message() }
func (e *ClassMismatchError) Unwrap() error { return ErrClassMismatch }

type DrugMismatchError struct{ Mismatch }

func (e *DrugMismatchError) Error() string { return e.message() }
func (e *DrugMismatchError) Unwrap() error { return ErrDrugMismatch }

type FutureDiscontinueDateError struct {
	DiscontinueDate time.Time
	Now             time.Time
}

func (e *FutureDiscontinueDateError) Error() string {
	return fmt.Sprintf("discontinue date %s cannot be in the future (now %s)",
		e.DiscontinueDate.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

func (e *FutureDiscontinueDateError) Unwrap() error { return ErrFutureDiscontinueDate }

type UndeterminedOrderTypeError struct {
	ConceptID    kernel.UUID
	ConceptClass string
}

func (e *UndeterminedOrderTypeError) Error() string {
	return fmt.Sprintf("cannot determine the order type of the order (concept %s, class %q has no mapped order type)",
		e.ConceptID, e.ConceptClass)
}

func (e *UndeterminedOrderTypeError) Unwrap() error { return ErrUndeterminedOrderType }

var rejectionReasons = []struct {
	sentinel error
	reason   string
}{
	{ErrInvalidOrder, "invalid"},
	{ErrImmutableOrder, "immutable"},
	{ErrMissingPreviousOrder, "missing_previous_order"},
	{ErrCannotActOnDiscontinuation, "previous_is_discontinuation"},
	{ErrTerminalPreviousOrder, "previous_is_terminal"},
	{ErrPatientMismatch, "patient_mismatch"},
	{ErrCareSettingMismatch, "care_setting_mismatch"},
	{ErrConceptMismatch, "concept_mismatch"},
	{ErrTypeMismatch, "type_mismatch"},
	{ErrClassMismatch, "class_mismatch"},
	{ErrDrugMismatch, "drug_mismatch"},
	{ErrFutureDiscontinueDate, "future_discontinue_date"},
	{ErrUndeterminedOrderType, "undetermined_order_type"},
}

// RejectionReason maps a lifecycle error onto a short label for metrics and
// logs. Errors that are not lifecycle errors map to "error".
func RejectionReason(err error) string {
	for _, r := range rejectionReasons {
		if errors.Is(err, r.sentinel) {
			return r.reason
		}
	}
	return "error"
}
