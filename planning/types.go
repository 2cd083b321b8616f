/*
Package planning provides the core resource-planning reconciliation engine.

PURPOSE:
  This package contains the domain types and algorithms that keep a
  project's declared resource requirements consistent with what is
  actually staffed. It computes allocation gaps over time, derives
  requirements when an allocation is partial or when approved leave
  removes a person from an allocation window, and cascades leave-status
  changes through the derived-requirement set.

KEY CONCEPTS IN THIS FILE (types.go):
  - RoleType/Person/Project: the roster entities
  - Requirement: a time-bounded need for N people of a role on a project
  - Allocation: a person staffed on a project at a capacity percentage
  - LeavePeriod: a person's time-off window with an approval status
  - Gap: the positive shortfall between required and allocated

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for counts and percentages, never float64
  2. Type Safety: strong typing for IDs prevents mixing entity kinds
  3. Closed enums: auto-generation kinds and leave statuses are typed
     constants, not free-form strings
  4. Explicit ports: all persistence goes through the Store interface

SEE ALSO:
  - window.go: Date and DateWindow (the overlap primitive)
  - gaps.go: gap analysis
  - autogen.go: derived-requirement generation and cleanup
  - cascade.go: leave-change cascades
*/
package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	PersonID      string
	ProjectID     string
	RoleTypeID    string
	RequirementID string
	AllocationID  string
	LeaveID       string
)

// NewID returns a fresh identifier for server-generated rows.
func NewID() string { return uuid.New().String() }

// =============================================================================
// ROSTER ENTITIES
// =============================================================================

// RoleType is a labeled skill/role category referenced by people,
// requirements and allocations.
type RoleType struct {
	ID        RoleTypeID
	Name      string
	CreatedAt time.Time
}

// Person is a roster member. Identity is immutable; the role type may be
// changed by an operator.
type Person struct {
	ID         PersonID
	Name       string
	RoleTypeID RoleTypeID
	CreatedAt  time.Time
}

// Project owns requirements and, through them, allocations.
type Project struct {
	ID        ProjectID
	Name      string
	Window    DateWindow
	CreatedAt time.Time
}

// =============================================================================
// REQUIREMENT - The unit being reconciled
// =============================================================================

// AutoGenType classifies how a requirement came to exist. Manually
// authored requirements carry AutoGenNone.
type AutoGenType string

const (
	AutoGenNone          AutoGenType = ""
	AutoGenLeaveCoverage AutoGenType = "leave_coverage"
	AutoGenPartialGap    AutoGenType = "partial_gap"
)

// Requirement is a time-bounded need for RequiredCount people of a given
// role type on a project. RequiredCount may be fractional (0.2 = a
// 20%-time slot).
//
// Invariant: AutoGenType != AutoGenNone implies SourceAllocationID != "".
type Requirement struct {
	ID            RequirementID
	ProjectID     ProjectID
	RoleTypeID    RoleTypeID
	Window        DateWindow
	RequiredCount decimal.Decimal

	// Auto-generation metadata. SourceAllocationID is the allocation that
	// caused this requirement to exist; ParentRequirementID is the manual
	// requirement it was derived from. Both empty for manual rows.
	AutoGenType         AutoGenType
	SourceAllocationID  AllocationID
	ParentRequirementID RequirementID

	// Ignored silences an auto-generated requirement without deleting it.
	// Ignored requirements are excluded from gap counts but kept for
	// audit and restore.
	Ignored bool

	Notes     string
	CreatedAt time.Time
}

// IsAutoGenerated reports whether the requirement was created by the
// engine rather than an operator.
func (r Requirement) IsAutoGenerated() bool { return r.AutoGenType != AutoGenNone }

// Validate checks structural invariants before any write.
func (r Requirement) Validate() error {
	if r.ProjectID == "" {
		return &ValidationError{Field: "project_id", Message: "project is required"}
	}
	if r.RoleTypeID == "" {
		return &ValidationError{Field: "role_type_id", Message: "role type is required"}
	}
	if !r.Window.IsValid() {
		return &ValidationError{Field: "window", Message: "start and end dates are required and start must not be after end"}
	}
	if !r.RequiredCount.IsPositive() {
		return &ValidationError{Field: "required_count", Message: "required count must be positive"}
	}
	if r.IsAutoGenerated() && r.SourceAllocationID == "" {
		return &ValidationError{Field: "source_allocation_id", Message: "auto-generated requirement must reference its source allocation"}
	}
	switch r.AutoGenType {
	case AutoGenNone, AutoGenLeaveCoverage, AutoGenPartialGap:
	default:
		return &ValidationError{Field: "auto_generated_type", Message: "unknown auto-generation type"}
	}
	return nil
}

// =============================================================================
// ALLOCATION - A person staffed on a project
// =============================================================================

// Allocation assigns a person to a project at a capacity percentage over
// a date window. Percent is 0-100 but may exceed 100 to represent
// deliberate over-allocation. RequirementID may be empty: the allocation
// is then orphaned (typically its requirement was deleted) and only
// matches requirements through the legacy role-and-date rule.
type Allocation struct {
	ID            AllocationID
	ProjectID     ProjectID
	PersonID      PersonID
	RoleTypeID    RoleTypeID
	RequirementID RequirementID
	Percent       decimal.Decimal
	Window        DateWindow
	CreatedAt     time.Time
}

// Validate checks structural invariants before any write.
func (a Allocation) Validate() error {
	if a.ProjectID == "" {
		return &ValidationError{Field: "project_id", Message: "project is required"}
	}
	if a.PersonID == "" {
		return &ValidationError{Field: "person_id", Message: "person is required"}
	}
	if a.RoleTypeID == "" {
		return &ValidationError{Field: "role_type_id", Message: "role type is required"}
	}
	if !a.Window.IsValid() {
		return &ValidationError{Field: "window", Message: "start and end dates are required and start must not be after end"}
	}
	if a.Percent.IsNegative() || a.Percent.IsZero() {
		return &ValidationError{Field: "percent", Message: "allocation percentage must be positive"}
	}
	return nil
}

// Capacity returns the allocation expressed as a head-count fraction
// (percent / 100), the unit requirements are counted in.
func (a Allocation) Capacity() decimal.Decimal {
	return a.Percent.Div(hundred)
}

// =============================================================================
// LEAVE PERIOD
// =============================================================================

// LeaveStatus is the approval state of a leave period.
//
// State machine: pending -> approved | unapproved, approved <-> unapproved,
// any state -> deleted. Only transitions into or out of approved trigger
// cascade side effects.
type LeaveStatus string

const (
	LeavePending    LeaveStatus = "pending"
	LeaveApproved   LeaveStatus = "approved"
	LeaveUnapproved LeaveStatus = "unapproved"
)

// Valid reports whether s is a known status value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveUnapproved:
		return true
	}
	return false
}

// LeavePeriod is a person's time-off window. Only approved leave produces
// leave-coverage requirements.
type LeavePeriod struct {
	ID        LeaveID
	PersonID  PersonID
	Window    DateWindow
	Status    LeaveStatus
	Notes     string
	CreatedAt time.Time
}

// Validate checks structural invariants before any write.
func (l LeavePeriod) Validate() error {
	if l.PersonID == "" {
		return &ValidationError{Field: "person_id", Message: "person is required"}
	}
	if !l.Window.IsValid() {
		return &ValidationError{Field: "window", Message: "start and end dates are required and start must not be after end"}
	}
	if !l.Status.Valid() {
		return &ValidationError{Field: "status", Message: "status must be pending, approved or unapproved"}
	}
	return nil
}

// =============================================================================
// GAP - Computed, never stored
// =============================================================================

// Gap is the shortfall for one requirement: Required - Allocated, emitted
// only when positive.
type Gap struct {
	Requirement Requirement
	Required    decimal.Decimal
	Allocated   decimal.Decimal
	Shortfall   decimal.Decimal
}

var hundred = decimal.NewFromInt(100)
