/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify errors with the helpers at the bottom; the API layer
  maps classes to HTTP status codes.

ERROR CATEGORIES:
  1. NotFound    - referenced row missing; sub-operations degrade to no-op
  2. Validation  - malformed input; rejects the whole mutation pre-write
  3. Conflict    - duplicate creation; treated as already-satisfied
  4. Infra       - persistence failures; logged, never blocks the
                   primary user-requested mutation

USAGE:
  if planning.IsNotFound(err) { ... 404 ... }
  var verr *planning.ValidationError
  if errors.As(err, &verr) { ... 400 ... }
*/
package planning

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAllocationNotFound is returned when a referenced allocation does not exist.
	ErrAllocationNotFound = errors.New("allocation not found")

	// ErrRequirementNotFound is returned when a referenced requirement does not exist.
	ErrRequirementNotFound = errors.New("requirement not found")

	// ErrLeaveNotFound is returned when a referenced leave period does not exist.
	ErrLeaveNotFound = errors.New("leave period not found")

	// ErrPersonNotFound is returned when a referenced person does not exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrProjectNotFound is returned when a referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrRoleTypeNotFound is returned when a referenced role type does not exist.
	ErrRoleTypeNotFound = errors.New("role type not found")

	// ErrAutoGenerated is returned when an operator tries to hand-edit or
	// hand-delete an auto-generated requirement. Auto-generated rows are
	// owned by their source allocation; operators may only ignore them.
	ErrAutoGenerated = errors.New("requirement is auto-generated and cannot be edited directly")

	// ErrProjectHasDependents is returned when deleting a project that
	// still owns requirements or allocations.
	ErrProjectHasDependents = errors.New("project still has requirements or allocations")

	// ErrDuplicatePartialGap is returned when a second partial-gap
	// requirement would be created for the same source allocation.
	ErrDuplicatePartialGap = errors.New("partial-gap requirement already exists for this allocation")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError rejects a mutation before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAllocationNotFound) ||
		errors.Is(err, ErrRequirementNotFound) ||
		errors.Is(err, ErrLeaveNotFound) ||
		errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrRoleTypeNotFound)
}

// IsConflict returns true if the error indicates a duplicate-creation
// situation that callers may treat as already satisfied.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePartialGap)
}

// IsClientError returns true if the error is due to invalid client input
// rather than an infrastructure failure.
func IsClientError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrAutoGenerated) ||
		errors.Is(err, ErrProjectHasDependents) ||
		IsConflict(err)
}
