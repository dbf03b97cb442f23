// Package order provides the clinical order aggregate and its lifecycle rules.
//
// The package includes:
//   - Order: the frozen, persisted-or-about-to-be-persisted order value, with an
//     optional drug payload for medication orders (Kind distinguishes them)
//   - Draft: the mutable staging value an Order is built from, plus the
//     CloneForDiscontinuing and CloneForRevision factories
//   - temporal status checks (IsFuture, IsCurrent, IsDiscontinued)
//   - HasSameOrderableAs, the equivalence used to chain and de-duplicate orders
//   - the typed lifecycle errors raised when a save would break a revision chain
//
// Key business rules:
//   - An order is never edited once it has a persisted identity; corrections are
//     new orders linked to the order they replace through PreviousOrder
//   - Only the stop date and audit fields of a saved order may still change
//   - Clones keep the orderable (concept, and drug for drug orders) of their source
package order
