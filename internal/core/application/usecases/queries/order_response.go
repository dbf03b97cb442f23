// Package queries contains read-only operations over stored orders.
// Queries never change state: they validate their input, read through an
// OrderReader (or SQL for aggregates) and return flat responses.
package queries

import (
	"context"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
)

// OrderReader is the read side of ports.OrderRepository.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*order.Order, error)
	FindActive(ctx context.Context, filter ports.ActiveOrdersFilter) ([]*order.Order, error)
	FindByConcept(ctx context.Context, patient, concept kernel.UUID) ([]*order.Order, error)
}

// OrderResponse is the read model of an order. Status flags are evaluated at
// the instant the query ran.
type OrderResponse struct {
	UUID          string        `json:"uuid"`
	OrderNumber   string        `json:"orderNumber"`
	Kind          string        `json:"kind"`
	Action        string        `json:"action"`
	PreviousOrder string        `json:"previousOrder,omitempty"`
	PatientID     string        `json:"patient"`
	ConceptID     string        `json:"concept,omitempty"`
	OrderTypeID   string        `json:"orderType,omitempty"`
	CareSetting   string        `json:"careSetting,omitempty"`
	Urgency       string        `json:"urgency"`
	Instructions  string        `json:"instructions,omitempty"`
	StartDate     *time.Time    `json:"startDate,omitempty"`
	AutoExpire    *time.Time    `json:"autoExpireDate,omitempty"`
	DateStopped   *time.Time    `json:"dateStopped,omitempty"`
	Active        bool          `json:"active"`
	Voided        bool          `json:"voided"`
	Drug          *DrugResponse `json:"drug,omitempty"`
}

// DrugResponse carries the dosing of a drug order.
type DrugResponse struct {
	DrugID             string   `json:"drug,omitempty"`
	DrugName           string   `json:"drugName,omitempty"`
	Dose               *float64 `json:"dose,omitempty"`
	DosingType         string   `json:"dosingType"`
	DosingInstructions string   `json:"dosingInstructions,omitempty"`
	AsNeeded           bool     `json:"asNeeded"`
	Quantity           *float64 `json:"quantity,omitempty"`
	NumRefills         *int     `json:"numRefills,omitempty"`
	Duration           *int     `json:"duration,omitempty"`
}

func newOrderResponse(o *order.Order, at time.Time) OrderResponse {
	resp := OrderResponse{
		UUID:         o.UUID().String(),
		OrderNumber:  o.OrderNumber(),
		Kind:         o.Kind().String(),
		Action:       o.Action().String(),
		Urgency:      o.Urgency().String(),
		Instructions: o.Instructions(),
		StartDate:    o.StartDate(),
		AutoExpire:   o.AutoExpireDate(),
		DateStopped:  o.DateStopped(),
		Active:       o.IsActive(at),
		Voided:       o.Voided(),
	}
	if prev := o.PreviousOrder(); prev != nil {
		resp.PreviousOrder = prev.String()
	}
	if p := o.Patient(); p != nil {
		resp.PatientID = p.ID.String()
	}
	if c := o.Concept(); c != nil {
		resp.ConceptID = c.ID.String()
	}
	if t := o.OrderType(); t != nil {
		resp.OrderTypeID = t.ID.String()
	}
	if cs := o.CareSetting(); cs != nil {
		resp.CareSetting = cs.Name
	}
	if d := o.Drug(); d != nil {
		drug := &DrugResponse{
			Dose:               d.Dose,
			DosingType:         d.DosingType.String(),
			DosingInstructions: d.DosingInstructions,
			AsNeeded:           d.AsNeeded,
			Quantity:           d.Quantity,
			NumRefills:         d.NumRefills,
			Duration:           d.Duration,
		}
		if d.Drug != nil {
			drug.DrugID = d.Drug.ID.String()
			drug.DrugName = d.Drug.Name
		}
		resp.Drug = drug
	}
	return resp
}

func newOrderResponses(orders []*order.Order, at time.Time) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o, at))
	}
	return out
}
