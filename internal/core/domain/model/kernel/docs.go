// Package kernel holds the value objects shared by every aggregate of the tracking
// domain: identifiers, geographic coordinates and timestamped positions.
//
// All values are immutable. Their zero values are invalid and fail Validate, so
// aggregates can tell an absent location from a constructed one without pointers.
package kernel
