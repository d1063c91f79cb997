// Package services holds domain services: behavior that spans the Order and
// User aggregates and therefore belongs to neither.
//
// Fulfillment applies order transitions together with their side effects on the
// delivery partner profile. Callers persist both aggregates in one unit of work.
package services
