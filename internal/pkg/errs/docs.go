// Package errs holds the error vocabulary shared by the tracking service.
//
// Every error type pairs a sentinel (ErrObjectNotFound, ErrConflict, ...) with a
// struct carrying the details. Error() renders a stable message and Unwrap()
// returns the sentinel, so adapters translate failures into HTTP statuses or
// socket error frames with errors.Is alone:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation
//   - NotAuthorizedError: role or relationship check failed
//   - InvalidTransitionError: lifecycle change not allowed from the current status
//   - ObjectNotFoundError: unknown order or user
//   - ConflictError: a conditional write lost a race
package errs
