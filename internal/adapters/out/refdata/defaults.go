package refdata

import (
	"errors"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
)

// Well-known order types shipped with every installation.
var (
	DrugOrderType = clinical.OrderType{
		ID:   kernel.MustUUID("131168f4-15f5-102d-96e4-000c29c2a5d7"),
		Name: "Drug Order",
	}
	TestOrderType = clinical.OrderType{
		ID:   kernel.MustUUID("52a447d3-a64a-11e3-9aeb-50e549534c5e"),
		Name: "Test Order",
	}
	RadiologyOrderType = clinical.OrderType{
		ID:       kernel.MustUUID("3d3f16e6-4a4e-4c4f-9d1e-6b8b0e3cbf01"),
		Name:     "Radiology Order",
		ParentID: &TestOrderType.ID,
	}
)

// LoadDefaults registers the well-known order types and the concept classes
// routed to them. Call after Invalidate to restore a clean registry.
func LoadDefaults(r *Registry) error {
	return errors.Join(
		r.RegisterOrderType(DrugOrderType),
		r.RegisterOrderType(TestOrderType),
		r.RegisterOrderType(RadiologyOrderType),
		r.MapConceptClass("Drug", DrugOrderType.ID),
		r.MapConceptClass("Test", TestOrderType.ID),
		r.MapConceptClass("LabSet", TestOrderType.ID),
		r.MapConceptClass("Radiology/Imaging Procedure", RadiologyOrderType.ID),
	)
}
