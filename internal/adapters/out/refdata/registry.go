// Package refdata holds the order type reference data the lifecycle rules
// consult: which order type a concept class maps onto, and how order types
// nest. The registry is an explicit object owned by the composition root and
// reloaded through Reload or Invalidate.
package refdata

import (
	"errors"
	"fmt"
	"sync"

	"orderentry/internal/core/domain/model/clinical"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
)

var ErrUnknownOrderType = errors.New("unknown order type")

// Registry implements ports.ReferenceData. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	types   map[kernel.UUID]clinical.OrderType
	byClass map[string]kernel.UUID
}

func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[kernel.UUID]clinical.OrderType),
		byClass: make(map[string]kernel.UUID),
	}
}

// RegisterOrderType adds or replaces an order type. Its parent, when set,
// must already be registered.
func (r *Registry) RegisterOrderType(t clinical.OrderType) error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Name == "" {
		return errs.NewValueIsRequiredError("orderType.name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ParentID != nil {
		if t.ParentID.IsEqual(t.ID) {
			return errs.NewValueIsInvalidError("orderType.parentId")
		}
		if _, ok := r.types[*t.ParentID]; !ok {
			return fmt.Errorf("parent of %s: %w", t.Name, ErrUnknownOrderType)
		}
	}

	r.types[t.ID] = t
	return nil
}

// MapConceptClass routes concepts of class onto the registered order type.
func (r *Registry) MapConceptClass(class string, orderType kernel.UUID) error {
	if class == "" {
		return errs.NewValueIsRequiredError("conceptClass")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[orderType]; !ok {
		return fmt.Errorf("mapping %q: %w", class, ErrUnknownOrderType)
	}
	r.byClass[class] = orderType
	return nil
}

// Invalidate drops every order type and mapping so the owner can reload them.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[kernel.UUID]clinical.OrderType)
	r.byClass = make(map[string]kernel.UUID)
}

// Reload builds a fresh set of order types and mappings with load and swaps it
// in. Readers see either the old set or the new one, never an empty registry.
// On error the current set is kept.
func (r *Registry) Reload(load func(*Registry) error) error {
	next := NewRegistry()
	if err := load(next); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.types, r.byClass = next.types, next.byClass
	return nil
}

func (r *Registry) OrderTypeForConcept(concept clinical.Concept) (clinical.OrderType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byClass[concept.Class]
	if !ok {
		return clinical.OrderType{}, false
	}
	t, ok := r.types[id]
	return t, ok
}

// IsSubtype walks candidate's ancestors looking for of. The candidate's own
// ParentID is trusted first; further ancestors come from the registry.
func (r *Registry) IsSubtype(candidate, of clinical.OrderType) bool {
	if candidate.ID.IsEqual(of.ID) {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := map[kernel.UUID]struct{}{candidate.ID: {}}
	parent := candidate.ParentID
	for parent != nil {
		if parent.IsEqual(of.ID) {
			return true
		}
		if _, seen := visited[*parent]; seen {
			return false
		}
		visited[*parent] = struct{}{}

		t, ok := r.types[*parent]
		if !ok {
			return false
		}
		parent = t.ParentID
	}
	return false
}

// SubtypeIDs returns id followed by every registered order type descending
// from it.
func (r *Registry) SubtypeIDs(id kernel.UUID) []kernel.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	children := make(map[kernel.UUID][]kernel.UUID, len(r.types))
	for _, t := range r.types {
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], t.ID)
		}
	}

	ids := []kernel.UUID{id}
	seen := map[kernel.UUID]struct{}{id: {}}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			ids = append(ids, child)
		}
	}
	return ids
}
