/*
store.go - Persistence port for the planning engine

PURPOSE:
  Defines the interface between the reconciliation logic and the
  database. The engine never touches a database client directly: every
  component takes a Store so cascade logic is testable against the
  in-memory implementation.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production SQLite
  - planning/store/memory.go: in-memory for testing

READ-EVERY-TIME CONTRACT:
  The engine never caches rows across calls. Every entrypoint re-reads
  what it needs, so the Store is the single source of truth and
  concurrent mutations are bounded by the store's own consistency.

NULL REFERENCES:
  Empty-string IDs represent null references (an orphaned allocation has
  RequirementID == ""). Get* methods return (nil, nil) for missing rows;
  sentinel NotFound errors are reserved for operations that require the
  row to exist.
*/
package planning

import "context"

// Store is the persistence port consumed by the analyzer, the
// auto-generation engine and the cascade handler, plus the CRUD surface
// the API layer needs.
type Store interface {
	// Role types
	SaveRoleType(ctx context.Context, rt RoleType) error
	GetRoleType(ctx context.Context, id RoleTypeID) (*RoleType, error)
	ListRoleTypes(ctx context.Context) ([]RoleType, error)
	DeleteRoleType(ctx context.Context, id RoleTypeID) error

	// People
	SavePerson(ctx context.Context, p Person) error
	GetPerson(ctx context.Context, id PersonID) (*Person, error)
	ListPeople(ctx context.Context) ([]Person, error)
	DeletePerson(ctx context.Context, id PersonID) error

	// Projects
	SaveProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, id ProjectID) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	// ProjectIDs returns ids only, for whole-organization gap sweeps.
	ProjectIDs(ctx context.Context) ([]ProjectID, error)
	// DeleteProject fails with ErrProjectHasDependents while the project
	// still owns requirements or allocations.
	DeleteProject(ctx context.Context, id ProjectID) error

	// Requirements
	SaveRequirement(ctx context.Context, r Requirement) error
	GetRequirement(ctx context.Context, id RequirementID) (*Requirement, error)
	RequirementsByProject(ctx context.Context, projectID ProjectID) ([]Requirement, error)
	RequirementsBySourceAllocation(ctx context.Context, allocationID AllocationID) ([]Requirement, error)
	// AutoGeneratedChildren returns auto-generated requirements whose
	// ParentRequirementID is parentID.
	AutoGeneratedChildren(ctx context.Context, parentID RequirementID) ([]Requirement, error)
	DeleteRequirement(ctx context.Context, id RequirementID) error

	// Allocations
	SaveAllocation(ctx context.Context, a Allocation) error
	GetAllocation(ctx context.Context, id AllocationID) (*Allocation, error)
	AllocationsByPerson(ctx context.Context, personID PersonID) ([]Allocation, error)
	AllocationsByRequirement(ctx context.Context, requirementID RequirementID) ([]Allocation, error)
	AllocationsByProject(ctx context.Context, projectID ProjectID) ([]Allocation, error)
	DeleteAllocation(ctx context.Context, id AllocationID) error
	// OrphanAllocations clears RequirementID on every allocation that
	// references requirementID. Used when a requirement is deleted.
	OrphanAllocations(ctx context.Context, requirementID RequirementID) error

	// Leave periods
	SaveLeavePeriod(ctx context.Context, l LeavePeriod) error
	GetLeavePeriod(ctx context.Context, id LeaveID) (*LeavePeriod, error)
	LeavePeriodsByPerson(ctx context.Context, personID PersonID) ([]LeavePeriod, error)
	// LeavePeriodsOverlapping returns the person's leave periods with the
	// given status whose windows overlap window.
	LeavePeriodsOverlapping(ctx context.Context, personID PersonID, status LeaveStatus, window DateWindow) ([]LeavePeriod, error)
	DeleteLeavePeriod(ctx context.Context, id LeaveID) error
}
