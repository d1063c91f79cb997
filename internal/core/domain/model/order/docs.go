// Package order implements the Order aggregate and its delivery lifecycle.
//
// The lifecycle is linear:
//
//	Pending ──> Assigned ──> InProgress ──> Delivered
//
// No step may be skipped or reversed and Delivered is terminal. Because the
// order is total, the machine is a successor lookup (Status.Next) rather than
// a transition graph.
//
// Invariants kept by every method:
//   - a delivery partner is set iff the status is Assigned, InProgress or Delivered
//   - the current location is only written by the assigned partner while the
//     order is Assigned or InProgress, and is cleared on delivery
package order
