// Package kernel provides the primitives shared by every order-entry model:
//   - UUID: the value object used for order uuids and reference identifiers
//   - Clock: the source of "now" for temporal status checks and validation
//
// Both are immutable and safe for concurrent use.
package kernel
