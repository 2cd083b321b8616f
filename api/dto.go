/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES:
  All dates cross the wire as "YYYY-MM-DD" strings. Quantities cross as
  JSON numbers; precision-sensitive arithmetic stays inside the planning
  package, the API only reports results.

VALIDATION:
  Validation is done in handlers and the planning package, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// ROSTER TYPES
// =============================================================================

// RoleTypeDTO represents a role type in API responses.
type RoleTypeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SaveRoleTypeRequest creates or renames a role type.
type SaveRoleTypeRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// PersonDTO represents a person in API responses.
type PersonDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RoleTypeID string `json:"role_type_id,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// SavePersonRequest creates or updates a person.
type SavePersonRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	RoleTypeID string `json:"role_type_id"`
}

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SaveProjectRequest creates or updates a project.
type SaveProjectRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// =============================================================================
// REQUIREMENTS AND ALLOCATIONS
// =============================================================================

// RequirementDTO represents a requirement in API responses.
type RequirementDTO struct {
	ID                  string  `json:"id"`
	ProjectID           string  `json:"project_id"`
	RoleTypeID          string  `json:"role_type_id"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	RequiredCount       float64 `json:"required_count"`
	AutoGeneratedType   string  `json:"auto_generated_type,omitempty"`
	SourceAllocationID  string  `json:"source_allocation_id,omitempty"`
	ParentRequirementID string  `json:"parent_requirement_id,omitempty"`
	Ignored             bool    `json:"ignored"`
	Notes               string  `json:"notes,omitempty"`
}

// SaveRequirementRequest creates or updates a manual requirement.
type SaveRequirementRequest struct {
	ID            string  `json:"id,omitempty"`
	ProjectID     string  `json:"project_id"`
	RoleTypeID    string  `json:"role_type_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	RequiredCount float64 `json:"required_count"`
	Notes         string  `json:"notes,omitempty"`
}

// AllocationDTO represents an allocation in API responses.
type AllocationDTO struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"project_id"`
	PersonID      string  `json:"person_id"`
	RoleTypeID    string  `json:"role_type_id"`
	RequirementID string  `json:"requirement_id,omitempty"`
	Percent       float64 `json:"percent"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}

// SaveAllocationRequest creates or updates an allocation.
type SaveAllocationRequest struct {
	ID            string  `json:"id,omitempty"`
	ProjectID     string  `json:"project_id"`
	PersonID      string  `json:"person_id"`
	RoleTypeID    string  `json:"role_type_id"`
	RequirementID string  `json:"requirement_id,omitempty"`
	Percent       float64 `json:"percent"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}

// AllocationResponse wraps a saved allocation together with what the
// auto-generation run derived from it.
type AllocationResponse struct {
	Allocation AllocationDTO    `json:"allocation"`
	Generated  []RequirementDTO `json:"generated,omitempty"`
}

// =============================================================================
// LEAVE
// =============================================================================

// LeaveDTO represents a leave period in API responses.
type LeaveDTO struct {
	ID        string `json:"id"`
	PersonID  string `json:"person_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

// SaveLeaveRequest creates or updates a leave period.
type SaveLeaveRequest struct {
	ID        string `json:"id,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status,omitempty"`
	// Pointer so updates can tell "clear the notes" from "leave them alone".
	Notes *string `json:"notes,omitempty"`
}

// =============================================================================
// ANALYSIS VIEWS
// =============================================================================

// GapDTO is one positive shortfall for one requirement.
type GapDTO struct {
	Requirement RequirementDTO `json:"requirement"`
	Required    float64        `json:"required"`
	Allocated   float64        `json:"allocated"`
	Gap         float64        `json:"gap"`
}

// UtilizationDTO is a person's capped utilization over a window.
type UtilizationDTO struct {
	PersonID  string  `json:"person_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Percent   float64 `json:"percent"`
}

// ConflictDTO is one pair of overlapping allocations past 100%.
type ConflictDTO struct {
	FirstAllocationID  string  `json:"first_allocation_id"`
	SecondAllocationID string  `json:"second_allocation_id"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	Combined           float64 `json:"combined"`
}

// OverAllocationDTO reports a person booked past 100%. Unlike
// UtilizationDTO the totals here are uncapped.
type OverAllocationDTO struct {
	PersonID  string        `json:"person_id"`
	Peak      float64       `json:"peak"`
	Conflicts []ConflictDTO `json:"conflicts"`
}

// RequirementGroupDTO is one node of the requirement presentation tree.
type RequirementGroupDTO struct {
	Requirement RequirementDTO   `json:"requirement"`
	Children    []RequirementDTO `json:"children,omitempty"`
	Orphaned    bool             `json:"orphaned,omitempty"`
}

// GapSummaryDTO is the rolled-up organization view served from the sweep
// cache.
type GapSummaryDTO struct {
	Projects         int     `json:"projects"`
	ProjectsWithGaps int     `json:"projects_with_gaps"`
	OpenGaps         int     `json:"open_gaps"`
	TotalShortfall   float64 `json:"total_shortfall"`
	GeneratedAt      string  `json:"generated_at"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func roleTypeDTO(rt planning.RoleType) RoleTypeDTO {
	return RoleTypeDTO{ID: string(rt.ID), Name: rt.Name}
}

func personDTO(p planning.Person) PersonDTO {
	return PersonDTO{
		ID:         string(p.ID),
		Name:       p.Name,
		RoleTypeID: string(p.RoleTypeID),
		CreatedAt:  formatCreatedAt(p.CreatedAt),
	}
}

func projectDTO(p planning.Project) ProjectDTO {
	return ProjectDTO{
		ID:        string(p.ID),
		Name:      p.Name,
		StartDate: p.Window.Start.String(),
		EndDate:   p.Window.End.String(),
	}
}

func requirementDTO(r planning.Requirement) RequirementDTO {
	return RequirementDTO{
		ID:                  string(r.ID),
		ProjectID:           string(r.ProjectID),
		RoleTypeID:          string(r.RoleTypeID),
		StartDate:           r.Window.Start.String(),
		EndDate:             r.Window.End.String(),
		RequiredCount:       r.RequiredCount.InexactFloat64(),
		AutoGeneratedType:   string(r.AutoGenType),
		SourceAllocationID:  string(r.SourceAllocationID),
		ParentRequirementID: string(r.ParentRequirementID),
		Ignored:             r.Ignored,
		Notes:               r.Notes,
	}
}

func requirementDTOs(reqs []planning.Requirement) []RequirementDTO {
	out := make([]RequirementDTO, len(reqs))
	for i, r := range reqs {
		out[i] = requirementDTO(r)
	}
	return out
}

func allocationDTO(a planning.Allocation) AllocationDTO {
	return AllocationDTO{
		ID:            string(a.ID),
		ProjectID:     string(a.ProjectID),
		PersonID:      string(a.PersonID),
		RoleTypeID:    string(a.RoleTypeID),
		RequirementID: string(a.RequirementID),
		Percent:       a.Percent.InexactFloat64(),
		StartDate:     a.Window.Start.String(),
		EndDate:       a.Window.End.String(),
	}
}

func leaveDTO(l planning.LeavePeriod) LeaveDTO {
	return LeaveDTO{
		ID:        string(l.ID),
		PersonID:  string(l.PersonID),
		StartDate: l.Window.Start.String(),
		EndDate:   l.Window.End.String(),
		Status:    string(l.Status),
		Notes:     l.Notes,
	}
}

func gapDTO(g planning.Gap) GapDTO {
	return GapDTO{
		Requirement: requirementDTO(g.Requirement),
		Required:    g.Required.InexactFloat64(),
		Allocated:   g.Allocated.InexactFloat64(),
		Gap:         g.Shortfall.InexactFloat64(),
	}
}

func gapDTOs(gaps []planning.Gap) []GapDTO {
	out := make([]GapDTO, len(gaps))
	for i, g := range gaps {
		out[i] = gapDTO(g)
	}
	return out
}

func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
