package order_test

import (
	"testing"
	"time"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var (
	patient     = &clinical.Patient{ID: kernel.NewUUID()}
	encounter   = &clinical.Encounter{ID: kernel.NewUUID(), Patient: patient}
	orderer     = &clinical.Provider{ID: kernel.NewUUID()}
	outpatient  = &clinical.CareSetting{ID: kernel.NewUUID(), Name: "OUTPATIENT"}
	labTest     = &clinical.OrderType{ID: kernel.NewUUID(), Name: "Test Order"}
	drugType    = &clinical.OrderType{ID: kernel.NewUUID(), Name: "Drug Order"}
	cd4Count    = &clinical.Concept{ID: kernel.NewUUID(), Class: "Test"}
	aspirin     = &clinical.Concept{ID: kernel.NewUUID(), Class: "Drug"}
	aspirin81   = &clinical.Drug{ID: kernel.NewUUID(), Name: "Aspirin 81mg", Concept: aspirin}
	aspirin325  = &clinical.Drug{ID: kernel.NewUUID(), Name: "Aspirin 325mg", Concept: aspirin}
	milligram   = &clinical.Concept{ID: kernel.NewUUID(), Class: "Units"}
	oral        = &clinical.Concept{ID: kernel.NewUUID(), Class: "Route"}
	onceDaily   = &clinical.OrderFrequency{ID: kernel.NewUUID(), Concept: &clinical.Concept{ID: kernel.NewUUID()}}
	startOf2020 = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func genericDraft() *order.Draft {
	d := order.NewDraft(order.KindGeneric)
	d.SetEncounter(encounter)
	d.Orderer = orderer
	d.CareSetting = outpatient
	d.OrderType = labTest
	d.Concept = cd4Count
	d.StartDate = ptr(startOf2020)
	d.Instructions = "fasting"
	return d
}

func drugDraft() *order.Draft {
	d := order.NewDraft(order.KindDrug)
	d.SetEncounter(encounter)
	d.Orderer = orderer
	d.CareSetting = outpatient
	d.OrderType = drugType
	d.Concept = aspirin
	d.StartDate = ptr(startOf2020)
	d.Drug.Drug = aspirin81
	d.Drug.Dose = ptr(81.0)
	d.Drug.DoseUnits = milligram
	d.Drug.Route = oral
	d.Drug.Frequency = onceDaily
	d.Drug.NumRefills = ptr(2)
	return d
}

func build(t *testing.T, d *order.Draft) *order.Order {
	t.Helper()
	o, err := d.Build()
	require.NoError(t, err)
	return o
}

// persisted returns o as it would come back from storage.
func persisted(t *testing.T, o *order.Order, id int64, number string) *order.Order {
	t.Helper()
	d := o.ToDraft()
	d.OrderNumber = number
	saved, err := order.Restore(id, *d)
	require.NoError(t, err)
	return saved
}
