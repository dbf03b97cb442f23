package order

import "orderentry/internal/core/domain/model/clinical"

// HasSameOrderableAs reports whether o and other are about the same thing.
//
// Orders of different kinds never match. Both kinds require the same concept.
// Drug orders additionally compare drugs: two orders without a drug match, an
// order with a drug never matches one without, and two drugs match only when
// they are the same drug record.
func (o *Order) HasSameOrderableAs(other *Order) bool {
	if o == nil || other == nil || o.kind != other.kind {
		return false
	}
	if o.concept == nil || other.concept == nil || !clinical.Same(o.concept, other.concept) {
		return false
	}
	if o.kind != KindDrug {
		return true
	}
	return clinical.Same(drugOf(o), drugOf(other))
}

func drugOf(o *Order) *clinical.Drug {
	if o.drug == nil {
		return nil
	}
	return o.drug.Drug
}
