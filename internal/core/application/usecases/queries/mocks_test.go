package queries_test

import (
	"context"
	"testing"
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now        = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	lastWeek   = now.AddDate(0, 0, -7)
	patient    = &clinical.Patient{ID: kernel.NewUUID()}
	encounter  = &clinical.Encounter{ID: kernel.NewUUID(), Patient: patient}
	outpatient = &clinical.CareSetting{ID: kernel.NewUUID(), Name: "OUTPATIENT"}
	drugType   = &clinical.OrderType{ID: kernel.NewUUID(), Name: "Drug Order"}
	aspirin    = &clinical.Concept{ID: kernel.NewUUID(), Class: "Drug"}
	aspirin81  = &clinical.Drug{ID: kernel.NewUUID(), Name: "Aspirin 81mg", Concept: aspirin}
	nextID     int64
)

func ptr[T any](v T) *T { return &v }

// saved builds and restores a drug order, as the repository returns it.
func saved(t *testing.T, number string, configure func(d *order.Draft)) *order.Order {
	t.Helper()
	d := order.NewDraft(order.KindDrug)
	d.OrderNumber = number
	d.SetEncounter(encounter)
	d.CareSetting = outpatient
	d.OrderType = drugType
	d.Concept = aspirin
	d.StartDate = ptr(lastWeek)
	d.Drug.Drug = aspirin81
	d.Drug.Dose = ptr(81.0)
	if configure != nil {
		configure(d)
	}

	nextID++
	o, err := order.Restore(nextID, *d)
	require.NoError(t, err)
	return o
}

// revisionOf saves a REVISE order chained to previous.
func revisionOf(t *testing.T, previous *order.Order, number string) *order.Order {
	t.Helper()
	d := order.CloneForRevision(previous)
	d.OrderNumber = number
	nextID++
	o, err := order.Restore(nextID, *d)
	require.NoError(t, err)
	return o
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) GetByOrderNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) FindActive(ctx context.Context, filter ports.ActiveOrdersFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderReader) FindByConcept(ctx context.Context, p, c kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, p, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockReferenceData struct{ mock.Mock }

func (m *MockReferenceData) OrderTypeForConcept(concept clinical.Concept) (clinical.OrderType, bool) {
	args := m.Called(concept)
	return args.Get(0).(clinical.OrderType), args.Bool(1)
}

func (m *MockReferenceData) IsSubtype(candidate, of clinical.OrderType) bool {
	args := m.Called(candidate, of)
	return args.Bool(0)
}

func (m *MockReferenceData) SubtypeIDs(id kernel.UUID) []kernel.UUID {
	args := m.Called(id)
	return args.Get(0).([]kernel.UUID)
}
