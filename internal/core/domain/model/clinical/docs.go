// Package clinical holds the reference values an order points at: patient,
// provider, encounter, concept, drug, order type, care setting and frequency.
//
// These are owned by external collaborators (patient registry, concept
// dictionary, provider directory). The order engine only needs their identity
// and the few attributes that drive its rules, so every value here is a plain
// struct compared by ID.
package clinical
