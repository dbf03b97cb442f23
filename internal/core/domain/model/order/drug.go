package order

import "orderentry/internal/core/domain/model/clinical"

// DrugDetails is the medication payload carried by orders of KindDrug.
// Drug may be nil when only the concept is prescribed.
type DrugDetails struct {
	Drug               *clinical.Drug
	Dose               *float64
	DoseUnits          *clinical.Concept
	Frequency          *clinical.OrderFrequency
	AsNeeded           bool
	AsNeededCondition  string
	Quantity           *float64
	QuantityUnits      *clinical.Concept
	DosingType         DosingType
	DosingInstructions string
	NumRefills         *int
	Duration           *int
	DurationUnits      *clinical.Concept
	Route              *clinical.Concept
}

// NewDrugDetails returns a payload with the default dosing type.
func NewDrugDetails(drug *clinical.Drug) *DrugDetails {
	return &DrugDetails{Drug: drug, DosingType: DosingSimple}
}

// clone copies the payload so that numeric pointers are not shared between a
// frozen order and a draft derived from it.
func (d *DrugDetails) clone() *DrugDetails {
	if d == nil {
		return nil
	}
	c := *d
	c.Dose = clonePtr(d.Dose)
	c.Quantity = clonePtr(d.Quantity)
	c.NumRefills = clonePtr(d.NumRefills)
	c.Duration = clonePtr(d.Duration)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
