/*
handlers.go - HTTP API handlers for the resource-planning system

PURPOSE:
  Exposes the planning engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

TWO-PHASE MUTATIONS:
  Allocation and leave mutations commit the primary write first, then
  explicitly invoke the engine/cascade entrypoint. A cascade failure is
  logged and swallowed: auto-generation is best effort and must never
  block the user-requested mutation from succeeding. A missed derived
  requirement is recoverable; a blocked primary action is not.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate derived requirement, blocked delete)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - planning/: the engine these handlers orchestrate
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    planning.Store
	Engine   *planning.Engine
	Cascade  *planning.Cascade
	Analyzer *planning.Analyzer
	Log      zerolog.Logger
}

// NewHandler wires the engine, cascade handler and analyzer over the
// given store.
func NewHandler(store planning.Store, log zerolog.Logger) *Handler {
	engine := planning.NewEngine(store, log)
	return &Handler{
		Store:    store,
		Engine:   engine,
		Cascade:  planning.NewCascade(store, engine, log),
		Analyzer: planning.NewAnalyzer(store),
		Log:      log.With().Str("component", "api").Logger(),
	}
}

// =============================================================================
// ROLE TYPE HANDLERS
// =============================================================================

func (h *Handler) ListRoleTypes(w http.ResponseWriter, r *http.Request) {
	roleTypes, err := h.Store.ListRoleTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list role types", err)
		return
	}
	dtos := make([]RoleTypeDTO, len(roleTypes))
	for i, rt := range roleTypes {
		dtos[i] = roleTypeDTO(rt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveRoleType(w http.ResponseWriter, r *http.Request) {
	var req SaveRoleTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Role type name is required", nil)
		return
	}

	rt := planning.RoleType{ID: planning.RoleTypeID(req.ID), Name: req.Name}
	if rt.ID == "" {
		rt.ID = planning.RoleTypeID(planning.NewID())
	}
	if err := h.Store.SaveRoleType(r.Context(), rt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save role type", err)
		return
	}
	writeJSON(w, http.StatusCreated, roleTypeDTO(rt))
}

func (h *Handler) DeleteRoleType(w http.ResponseWriter, r *http.Request) {
	id := planning.RoleTypeID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteRoleType(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete role type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ListPeople(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list people", err)
		return
	}
	dtos := make([]PersonDTO, len(people))
	for i, p := range people {
		dtos[i] = personDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := planning.PersonID(chi.URLParam(r, "id"))
	p, err := h.Store.GetPerson(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get person", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, personDTO(*p))
}

func (h *Handler) SavePerson(w http.ResponseWriter, r *http.Request) {
	var req SavePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Person name is required", nil)
		return
	}

	p := planning.Person{
		ID:         planning.PersonID(req.ID),
		Name:       req.Name,
		RoleTypeID: planning.RoleTypeID(req.RoleTypeID),
	}
	if p.ID == "" {
		p.ID = planning.PersonID(planning.NewID())
	}
	if err := h.Store.SavePerson(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save person", err)
		return
	}
	writeJSON(w, http.StatusCreated, personDTO(p))
}

func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id := planning.PersonID(chi.URLParam(r, "id"))
	if err := h.Store.DeletePerson(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete person", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUtilization returns the person's capped utilization over a window.
func (h *Handler) GetUtilization(w http.ResponseWriter, r *http.Request) {
	id := planning.PersonID(chi.URLParam(r, "id"))
	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range (use start=YYYY-MM-DD&end=YYYY-MM-DD)", err)
		return
	}

	percent, err := h.Analyzer.PersonUtilization(r.Context(), id, window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute utilization", err)
		return
	}
	writeJSON(w, http.StatusOK, UtilizationDTO{
		PersonID:  string(id),
		StartDate: window.Start.String(),
		EndDate:   window.End.String(),
		Percent:   percent.InexactFloat64(),
	})
}

// GetOverAllocated reports people booked past 100% in a window.
func (h *Handler) GetOverAllocated(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range (use start=YYYY-MM-DD&end=YYYY-MM-DD)", err)
		return
	}

	over, err := h.Analyzer.OverAllocatedPeople(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to detect over-allocations", err)
		return
	}

	dtos := make([]OverAllocationDTO, len(over))
	for i, oa := range over {
		conflicts := make([]ConflictDTO, len(oa.Conflicts))
		for j, c := range oa.Conflicts {
			conflicts[j] = ConflictDTO{
				FirstAllocationID:  string(c.First.ID),
				SecondAllocationID: string(c.Second.ID),
				StartDate:          c.Window.Start.String(),
				EndDate:            c.Window.End.String(),
				Combined:           c.Combined.InexactFloat64(),
			}
		}
		dtos[i] = OverAllocationDTO{
			PersonID:  string(oa.PersonID),
			Peak:      oa.Peak.InexactFloat64(),
			Conflicts: conflicts,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = projectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := planning.ProjectID(chi.URLParam(r, "id"))
	p, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, projectDTO(*p))
}

func (h *Handler) SaveProject(w http.ResponseWriter, r *http.Request) {
	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dates (use YYYY-MM-DD)", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Project name is required", nil)
		return
	}

	p := planning.Project{ID: planning.ProjectID(req.ID), Name: req.Name, Window: window}
	if p.ID == "" {
		p.ID = planning.ProjectID(planning.NewID())
	}
	if err := h.Store.SaveProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	writeJSON(w, http.StatusCreated, projectDTO(p))
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := planning.ProjectID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, planning.ErrProjectHasDependents) {
			writeError(w, http.StatusConflict, "Project still has requirements or allocations", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProjectGaps computes the gap list for one project on demand.
func (h *Handler) GetProjectGaps(w http.ResponseWriter, r *http.Request) {
	id := planning.ProjectID(chi.URLParam(r, "id"))
	gaps, err := h.Analyzer.ProjectGaps(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute gaps", err)
		return
	}
	writeJSON(w, http.StatusOK, gapDTOs(gaps))
}

// ListProjectRequirements returns the flat requirement rows.
func (h *Handler) ListProjectRequirements(w http.ResponseWriter, r *http.Request) {
	id := planning.ProjectID(chi.URLParam(r, "id"))
	reqs, err := h.Store.RequirementsByProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requirements", err)
		return
	}
	writeJSON(w, http.StatusOK, requirementDTOs(reqs))
}

// GetRequirementTree returns requirements grouped parent/child for
// presentation.
func (h *Handler) GetRequirementTree(w http.ResponseWriter, r *http.Request) {
	id := planning.ProjectID(chi.URLParam(r, "id"))
	reqs, err := h.Store.RequirementsByProject(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requirements", err)
		return
	}

	groups := planning.GroupRequirements(reqs)
	dtos := make([]RequirementGroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = RequirementGroupDTO{
			Requirement: requirementDTO(g.Requirement),
			Children:    requirementDTOs(g.Children),
			Orphaned:    g.Orphaned,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REQUIREMENT HANDLERS
// =============================================================================

func (h *Handler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	id := planning.RequirementID(chi.URLParam(r, "id"))
	req, err := h.Store.GetRequirement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get requirement", err)
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "Requirement not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, requirementDTO(*req))
}

// SaveRequirement creates or updates a manually authored requirement.
// Auto-generated requirements cannot be hand-edited.
func (h *Handler) SaveRequirement(w http.ResponseWriter, r *http.Request) {
	var req SaveRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dates (use YYYY-MM-DD)", err)
		return
	}

	ctx := r.Context()
	requirement := planning.Requirement{
		ID:            planning.RequirementID(req.ID),
		ProjectID:     planning.ProjectID(req.ProjectID),
		RoleTypeID:    planning.RoleTypeID(req.RoleTypeID),
		Window:        window,
		RequiredCount: decimal.NewFromFloat(req.RequiredCount),
		Notes:         req.Notes,
	}

	if requirement.ID == "" {
		requirement.ID = planning.RequirementID(planning.NewID())
	} else {
		existing, err := h.Store.GetRequirement(ctx, requirement.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load requirement", err)
			return
		}
		if existing != nil && existing.IsAutoGenerated() {
			writeError(w, http.StatusBadRequest, "Auto-generated requirements cannot be edited", planning.ErrAutoGenerated)
			return
		}
		if existing != nil {
			requirement.Ignored = existing.Ignored
			requirement.CreatedAt = existing.CreatedAt
		}
	}

	if err := requirement.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid requirement", err)
		return
	}
	if err := h.Store.SaveRequirement(ctx, requirement); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save requirement", err)
		return
	}
	writeJSON(w, http.StatusCreated, requirementDTO(requirement))
}

// DeleteRequirement removes a manual requirement, cascading to its
// auto-generated children and orphaning affected allocations.
func (h *Handler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id := planning.RequirementID(chi.URLParam(r, "id"))
	if err := h.Engine.RemoveRequirement(r.Context(), id); err != nil {
		switch {
		case planning.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Requirement not found", err)
		case errors.Is(err, planning.ErrAutoGenerated):
			writeError(w, http.StatusBadRequest, "Auto-generated requirements cannot be deleted; ignore them instead", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to delete requirement", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IgnoreRequirement silences a requirement without deleting it.
func (h *Handler) IgnoreRequirement(w http.ResponseWriter, r *http.Request) {
	h.setIgnored(w, r, true)
}

// RestoreRequirement un-silences a previously ignored requirement.
func (h *Handler) RestoreRequirement(w http.ResponseWriter, r *http.Request) {
	h.setIgnored(w, r, false)
}

func (h *Handler) setIgnored(w http.ResponseWriter, r *http.Request, ignored bool) {
	id := planning.RequirementID(chi.URLParam(r, "id"))
	req, err := h.Engine.SetRequirementIgnored(r.Context(), id, ignored)
	if err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Requirement not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update requirement", err)
		return
	}
	writeJSON(w, http.StatusOK, requirementDTO(*req))
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	id := planning.AllocationID(chi.URLParam(r, "id"))
	a, err := h.Store.GetAllocation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get allocation", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Allocation not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, allocationDTO(*a))
}

// SaveAllocation commits the allocation, then runs auto-generation. The
// cascade is best effort: its failure is logged, never surfaced as a
// failure of the allocation write itself.
func (h *Handler) SaveAllocation(w http.ResponseWriter, r *http.Request) {
	var req SaveAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dates (use YYYY-MM-DD)", err)
		return
	}
	// PUT routes carry the id in the URL.
	if id := chi.URLParam(r, "id"); id != "" {
		req.ID = id
	}

	ctx := r.Context()
	alloc := planning.Allocation{
		ID:            planning.AllocationID(req.ID),
		ProjectID:     planning.ProjectID(req.ProjectID),
		PersonID:      planning.PersonID(req.PersonID),
		RoleTypeID:    planning.RoleTypeID(req.RoleTypeID),
		RequirementID: planning.RequirementID(req.RequirementID),
		Percent:       decimal.NewFromFloat(req.Percent),
		Window:        window,
	}

	status := http.StatusCreated
	if alloc.ID == "" {
		alloc.ID = planning.AllocationID(planning.NewID())
	} else {
		existing, err := h.Store.GetAllocation(ctx, alloc.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load allocation", err)
			return
		}
		if existing != nil {
			alloc.CreatedAt = existing.CreatedAt
			status = http.StatusOK
		}
	}

	if err := alloc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid allocation", err)
		return
	}
	if err := h.Store.SaveAllocation(ctx, alloc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save allocation", err)
		return
	}

	// Phase two: derive requirements. Best effort by design.
	var generated []RequirementDTO
	result, err := h.Engine.ProcessAllocation(ctx, alloc.ID)
	if err != nil {
		h.Log.Error().Err(err).
			Str("allocation_id", string(alloc.ID)).
			Msg("auto-generation failed after allocation write")
	} else {
		generated = append(requirementDTOs(result.LeaveCoverage), requirementDTOs(result.PartialGaps)...)
	}

	writeJSON(w, status, AllocationResponse{
		Allocation: allocationDTO(alloc),
		Generated:  generated,
	})
}

// DeleteAllocation runs the derived-requirement cleanup pass, then
// removes the allocation.
func (h *Handler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := planning.AllocationID(chi.URLParam(r, "id"))

	a, err := h.Store.GetAllocation(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get allocation", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Allocation not found", nil)
		return
	}

	if _, err := h.Engine.CleanupAllocation(ctx, id); err != nil {
		h.Log.Error().Err(err).
			Str("allocation_id", string(id)).
			Msg("derived-requirement cleanup failed before allocation delete")
	}
	if err := h.Store.DeleteAllocation(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete allocation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

func (h *Handler) ListLeave(w http.ResponseWriter, r *http.Request) {
	personID := planning.PersonID(chi.URLParam(r, "id"))
	leave, err := h.Store.LeavePeriodsByPerson(r.Context(), personID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave periods", err)
		return
	}
	dtos := make([]LeaveDTO, len(leave))
	for i, l := range leave {
		dtos[i] = leaveDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeave commits the leave period, then runs the creation cascade.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	personID := planning.PersonID(chi.URLParam(r, "id"))

	var req SaveLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dates (use YYYY-MM-DD)", err)
		return
	}

	leave := planning.LeavePeriod{
		ID:       planning.LeaveID(req.ID),
		PersonID: personID,
		Window:   window,
		Status:   planning.LeaveStatus(req.Status),
	}
	if req.Notes != nil {
		leave.Notes = *req.Notes
	}
	if leave.ID == "" {
		leave.ID = planning.LeaveID(planning.NewID())
	}
	if leave.Status == "" {
		leave.Status = planning.LeavePending
	}
	if err := leave.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave period", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.SaveLeavePeriod(ctx, leave); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave period", err)
		return
	}

	if err := h.Cascade.OnLeaveCreated(ctx, personID, leave.ID); err != nil {
		h.Log.Error().Err(err).
			Str("leave_id", string(leave.ID)).
			Msg("leave-created cascade failed")
	}
	writeJSON(w, http.StatusCreated, leaveDTO(leave))
}

// UpdateLeave commits changed fields, then cascades any status
// transition.
func (h *Handler) UpdateLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := planning.LeaveID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetLeavePeriod(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get leave period", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Leave period not found", nil)
		return
	}

	var req SaveLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated := *existing
	if req.StartDate != "" || req.EndDate != "" {
		window, err := parseWindow(req.StartDate, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid dates (use YYYY-MM-DD)", err)
			return
		}
		updated.Window = window
	}
	if req.Status != "" {
		updated.Status = planning.LeaveStatus(req.Status)
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if err := updated.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave period", err)
		return
	}

	if err := h.Store.SaveLeavePeriod(ctx, updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save leave period", err)
		return
	}

	if updated.Status != existing.Status {
		if err := h.Cascade.OnLeaveStatusChanged(ctx, updated.PersonID, id, updated.Status); err != nil {
			h.Log.Error().Err(err).
				Str("leave_id", string(id)).
				Str("status", string(updated.Status)).
				Msg("leave-status cascade failed")
		}
	}
	writeJSON(w, http.StatusOK, leaveDTO(updated))
}

// DeleteLeave removes the leave period, then cascades the deletion.
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := planning.LeaveID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetLeavePeriod(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get leave period", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Leave period not found", nil)
		return
	}

	if err := h.Store.DeleteLeavePeriod(ctx, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete leave period", err)
		return
	}

	if err := h.Cascade.OnLeaveDeleted(ctx, existing.PersonID, *existing); err != nil {
		h.Log.Error().Err(err).
			Str("leave_id", string(id)).
			Msg("leave-deleted cascade failed")
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ORGANIZATION GAP HANDLERS
// =============================================================================

// GetOrganizationGaps sweeps every project and returns gaps keyed by
// project id.
func (h *Handler) GetOrganizationGaps(w http.ResponseWriter, r *http.Request) {
	byProject, err := h.Analyzer.OrganizationGaps(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute organization gaps", err)
		return
	}

	out := make(map[string][]GapDTO, len(byProject))
	for id, gaps := range byProject {
		out[string(id)] = gapDTOs(gaps)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}

func parseWindow(start, end string) (planning.DateWindow, error) {
	s, err := planning.ParseDate(start)
	if err != nil {
		return planning.DateWindow{}, err
	}
	e, err := planning.ParseDate(end)
	if err != nil {
		return planning.DateWindow{}, err
	}
	w := planning.DateWindow{Start: s, End: e}
	if !w.IsValid() {
		return planning.DateWindow{}, &planning.ValidationError{Field: "window", Message: "start must not be after end"}
	}
	return w, nil
}

func windowFromQuery(r *http.Request) (planning.DateWindow, error) {
	return parseWindow(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
}
