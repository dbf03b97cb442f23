package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/services"
	"orderentry/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now        = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	yesterday  = now.AddDate(0, 0, -1)
	lastWeek   = now.AddDate(0, 0, -7)
	patient    = &clinical.Patient{ID: kernel.NewUUID()}
	encounter  = &clinical.Encounter{ID: kernel.NewUUID(), Patient: patient}
	orderer    = &clinical.Provider{ID: kernel.NewUUID()}
	outpatient = &clinical.CareSetting{ID: kernel.NewUUID(), Name: "OUTPATIENT"}
	drugType   = &clinical.OrderType{ID: kernel.NewUUID(), Name: "Drug Order"}
	aspirin    = &clinical.Concept{ID: kernel.NewUUID(), Class: "Drug"}
	aspirin81  = &clinical.Drug{ID: kernel.NewUUID(), Name: "Aspirin 81mg", Concept: aspirin}
	milligram  = &clinical.Concept{ID: kernel.NewUUID()}
	oral       = &clinical.Concept{ID: kernel.NewUUID()}
	onceDaily  = &clinical.OrderFrequency{ID: kernel.NewUUID()}
	nextID     int64
)

func ptr[T any](v T) *T { return &v }

func drugDraft() *order.Draft {
	d := order.NewDraft(order.KindDrug)
	d.SetEncounter(encounter)
	d.Orderer = orderer
	d.CareSetting = outpatient
	d.OrderType = drugType
	d.Concept = aspirin
	d.Drug.Drug = aspirin81
	d.Drug.Dose = ptr(81.0)
	d.Drug.DoseUnits = milligram
	d.Drug.Route = oral
	d.Drug.Frequency = onceDaily
	return d
}

func build(t *testing.T, d *order.Draft) *order.Order {
	t.Helper()
	o, err := d.Build()
	require.NoError(t, err)
	return o
}

// stored returns o as the repository hands it back after an insert.
func stored(t *testing.T, o *order.Order) *order.Order {
	t.Helper()
	nextID++
	s, err := order.Restore(nextID, *o.ToDraft())
	require.NoError(t, err)
	return s
}

// activeDrugOrder is a saved aspirin order started last week.
func activeDrugOrder(t *testing.T) *order.Order {
	t.Helper()
	d := drugDraft()
	d.StartDate = ptr(lastWeek)
	d.OrderNumber = "ORD-1"
	return stored(t, build(t, d))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSaveValidator(t *testing.T) *services.SaveValidator {
	t.Helper()
	refData := new(MockReferenceData)
	refData.On("IsSubtype", mock.Anything, mock.Anything).Return(true).Maybe()
	v, err := services.NewSaveValidator(refData, kernel.FixedClock{At: now})
	require.NoError(t, err)
	return v
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) (*order.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(*order.Order) *order.Order); ok {
		return fn(o), args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStopDate(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindActive(ctx context.Context, filter ports.ActiveOrdersFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByConcept(ctx context.Context, p, c kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, p, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockObservationRepository struct{ mock.Mock }

func (m *MockObservationRepository) DeleteByOrder(ctx context.Context, id kernel.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockObservationRepository) DetachOrder(ctx context.Context, id kernel.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPurgeUoW struct {
	MockOrderUoW
}

func (m *MockPurgeUoW) ObservationRepository() ports.ObservationRepository {
	args := m.Called()
	return args.Get(0).(ports.ObservationRepository)
}

type MockPurgeUoWFactory struct{ mock.Mock }

func (m *MockPurgeUoWFactory) Create() commands.PurgeUoW {
	args := m.Called()
	return args.Get(0).(commands.PurgeUoW)
}

type MockOrderNumberGenerator struct{ mock.Mock }

func (m *MockOrderNumberGenerator) NextOrderNumber(ctx context.Context, oc order.Context) (string, error) {
	args := m.Called(ctx, oc)
	return args.String(0), args.Error(1)
}

type MockMetricsRecorder struct{ mock.Mock }

func (m *MockMetricsRecorder) OrderSaved(kind order.Kind, action order.Action) {
	m.Called(kind, action)
}

func (m *MockMetricsRecorder) OrderRejected(reason string) {
	m.Called(reason)
}

func (m *MockMetricsRecorder) OrderAutoDiscontinued(kind order.Kind) {
	m.Called(kind)
}

func (m *MockMetricsRecorder) OrderPurged(cascade bool, observations int64) {
	m.Called(cascade, observations)
}

func (m *MockMetricsRecorder) SetActiveOrders(count int64) {
	m.Called(count)
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

type MockOrderSaver struct{ mock.Mock }

func (m *MockOrderSaver) Handle(ctx context.Context, cmd commands.SaveOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
