package clinical

import "orderentry/internal/core/domain/model/kernel"

// Identifiable is implemented by every reference value.
type Identifiable interface {
	Identity() kernel.UUID
}

// Same reports whether two optional references point at the same record.
// Two absent references are considered the same.
func Same[T Identifiable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return (*a).Identity().IsEqual((*b).Identity())
}

// IDOf returns the identifier of an optional reference, or the zero UUID.
func IDOf[T Identifiable](ref *T) kernel.UUID {
	if ref == nil {
		return kernel.UUID{}
	}
	return (*ref).Identity()
}

type Patient struct {
	ID kernel.UUID
}

func (p Patient) Identity() kernel.UUID { return p.ID }

type Provider struct {
	ID kernel.UUID
}

func (p Provider) Identity() kernel.UUID { return p.ID }

// Encounter is the visit an order was placed in. Its patient is the patient of
// every order attached to it.
type Encounter struct {
	ID      kernel.UUID
	Patient *Patient
}

func (e Encounter) Identity() kernel.UUID { return e.ID }

// Concept is a coded dictionary entry. Class is the concept class name used to
// map a concept onto an order type.
type Concept struct {
	ID    kernel.UUID
	Class string
}

func (c Concept) Identity() kernel.UUID { return c.ID }

// Drug is a formulation of a concept.
type Drug struct {
	ID      kernel.UUID
	Name    string
	Concept *Concept
}

func (d Drug) Identity() kernel.UUID { return d.ID }

// OrderType classifies orders. ParentID names the declared super-type, if any.
type OrderType struct {
	ID       kernel.UUID
	Name     string
	ParentID *kernel.UUID
}

func (t OrderType) Identity() kernel.UUID { return t.ID }

type CareSetting struct {
	ID   kernel.UUID
	Name string
}

func (c CareSetting) Identity() kernel.UUID { return c.ID }

type OrderFrequency struct {
	ID      kernel.UUID
	Concept *Concept
}

func (f OrderFrequency) Identity() kernel.UUID { return f.ID }
