package services_test

import (
	"testing"
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

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
	inpatient  = &clinical.CareSetting{ID: kernel.NewUUID(), Name: "INPATIENT"}
	testType   = &clinical.OrderType{ID: kernel.NewUUID(), Name: "Test Order"}
	drugType   = &clinical.OrderType{ID: kernel.NewUUID(), Name: "Drug Order"}
	cd4Count   = &clinical.Concept{ID: kernel.NewUUID(), Class: "Test"}
	viralLoad  = &clinical.Concept{ID: kernel.NewUUID(), Class: "Test"}
	aspirin    = &clinical.Concept{ID: kernel.NewUUID(), Class: "Drug"}
	aspirin81  = &clinical.Drug{ID: kernel.NewUUID(), Name: "Aspirin 81mg", Concept: aspirin}
	aspirin325 = &clinical.Drug{ID: kernel.NewUUID(), Name: "Aspirin 325mg", Concept: aspirin}
	milligram  = &clinical.Concept{ID: kernel.NewUUID()}
	oral       = &clinical.Concept{ID: kernel.NewUUID()}
	onceDaily  = &clinical.OrderFrequency{ID: kernel.NewUUID()}
)

var nextID int64

func ptr[T any](v T) *T { return &v }

func genericDraft() *order.Draft {
	d := order.NewDraft(order.KindGeneric)
	d.SetEncounter(encounter)
	d.Orderer = orderer
	d.CareSetting = outpatient
	d.OrderType = testType
	d.Concept = cd4Count
	return d
}

func drugDraft(drug *clinical.Drug) *order.Draft {
	d := order.NewDraft(order.KindDrug)
	d.SetEncounter(encounter)
	d.Orderer = orderer
	d.CareSetting = outpatient
	d.OrderType = drugType
	d.Concept = aspirin
	d.Drug.Drug = drug
	d.Drug.Dose = ptr(1.0)
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

// saved stores a draft as an active order started a week ago.
func saved(t *testing.T, d *order.Draft) *order.Order {
	t.Helper()
	if d.StartDate == nil {
		d.StartDate = ptr(lastWeek)
	}
	nextID++
	o, err := order.Restore(nextID, *d)
	require.NoError(t, err)
	return o
}

type MockReferenceData struct{ mock.Mock }

func (m *MockReferenceData) OrderTypeForConcept(concept clinical.Concept) (clinical.OrderType, bool) {
	args := m.Called(concept)
	return args.Get(0).(clinical.OrderType), args.Bool(1)
}

func (m *MockReferenceData) IsSubtype(candidate, of clinical.OrderType) bool {
	args := m.Called(candidate, of)
	if fn, ok := args.Get(0).(func(clinical.OrderType, clinical.OrderType) bool); ok {
		return fn(candidate, of)
	}
	return args.Bool(0)
}

func (m *MockReferenceData) SubtypeIDs(id kernel.UUID) []kernel.UUID {
	args := m.Called(id)
	return args.Get(0).([]kernel.UUID)
}

// sameTypeOnly answers IsSubtype with plain identity.
func sameTypeOnly() *MockReferenceData {
	m := new(MockReferenceData)
	m.On("IsSubtype", mock.Anything, mock.Anything).Return(func(candidate, of clinical.OrderType) bool {
		return candidate.ID.IsEqual(of.ID)
	}).Maybe()
	return m
}
