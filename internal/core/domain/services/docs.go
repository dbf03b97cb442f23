// Package services provides the domain services of the order lifecycle that
// span more than one order.
//
// The package includes:
//   - SaveValidator: the revision/discontinuation rule engine run before an
//     order is persisted. It checks the new order against its previous order,
//     links conflicting active orders, and returns a SavePlan describing what
//     the persistence layer must commit atomically.
//
// SaveValidator is pure: it does no I/O, takes every order it needs in the
// request and reads "now" from an injected kernel.Clock.
package services
