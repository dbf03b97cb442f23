package order_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleErrors(t *testing.T) {
	id := kernel.NewUUID()
	mismatch := order.Mismatch{Field: "concept", Previous: "a", New: "b"}

	tests := []struct {
		err      error
		sentinel error
		contains string
	}{
		{&order.ImmutableOrderError{OrderID: 3, UUID: id}, order.ErrImmutableOrder, "you need to revise it instead"},
		{&order.MissingPreviousOrderError{Action: order.ActionRevise}, order.ErrMissingPreviousOrder, "REVISE"},
		{&order.CannotActOnDiscontinuationOrderError{PreviousUUID: id, Action: order.ActionDiscontinue}, order.ErrCannotActOnDiscontinuation, "cannot be discontinued"},
		{&order.CannotActOnDiscontinuationOrderError{PreviousUUID: id, Action: order.ActionRevise}, order.ErrCannotActOnDiscontinuation, "cannot be revised"},
		{&order.TerminalPreviousOrderError{PreviousUUID: id, Reason: order.TerminalExpired, At: startOf2020}, order.ErrTerminalPreviousOrder, "is expired"},
		{&order.PatientMismatchError{Mismatch: mismatch}, order.ErrPatientMismatch, "don't match"},
		{&order.CareSettingMismatchError{Mismatch: mismatch}, order.ErrCareSettingMismatch, "don't match"},
		{&order.ConceptMismatchError{Mismatch: mismatch}, order.ErrConceptMismatch, "the concept of the previous order"},
		{&order.TypeMismatchError{Mismatch: mismatch}, order.ErrTypeMismatch, "previous a, new b"},
		{&order.ClassMismatchError{Mismatch: mismatch}, order.ErrClassMismatch, "don't match"},
		{&order.DrugMismatchError{Mismatch: mismatch}, order.ErrDrugMismatch, "don't match"},
		{&order.FutureDiscontinueDateError{DiscontinueDate: startOf2020.Add(time.Hour), Now: startOf2020}, order.ErrFutureDiscontinueDate, "future"},
		{&order.UndeterminedOrderTypeError{ConceptID: id, ConceptClass: "Misc"}, order.ErrUndeterminedOrderType, "cannot determine the order type"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, tt.err, order.ErrLifecycle)
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}

	t.Run("should expose the mismatch context", func(t *testing.T) {
		var err error = &order.DrugMismatchError{Mismatch: mismatch}

		var target *order.DrugMismatchError
		if assert.True(t, errors.As(err, &target)) {
			assert.Equal(t, "concept", target.Field)
			assert.Equal(t, "a", target.Previous)
		}
	})
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "drug_mismatch", order.RejectionReason(&order.DrugMismatchError{}))
	assert.Equal(t, "invalid", order.RejectionReason(&order.ValidationError{}))
	assert.Equal(t, "previous_is_terminal", order.RejectionReason(
		fmt.Errorf("save: %w", &order.TerminalPreviousOrderError{Reason: order.TerminalVoided})))
	assert.Equal(t, "error", order.RejectionReason(errors.New("connection reset")))
}
