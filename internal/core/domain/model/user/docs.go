// Package user holds the User aggregate. For delivery partners it also carries the
// assignment profile used by the order lifecycle: availability, the order being
// worked and the last reported position.
//
// A partner is available exactly when it has no current order. Only order
// transitions (TakeOrder on assignment, ReleaseOrder on delivery) and the
// reconciliation job (Reconcile) change that pair.
package user
