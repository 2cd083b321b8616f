/*
autogen.go - Derived-requirement generation and cleanup

PURPOSE:
  Reacts to allocation mutations by deriving child requirements:

  leave_coverage: the allocated person has approved leave overlapping the
    allocation window, so someone must cover the intersection.
  partial_gap: the allocation fills less than 100% of its parent
    requirement slot, so the remainder is re-advertised as a new need.

ORDERING:
  ProcessAllocation always runs the cleanup pass before generating, so
  stale derived requirements from a prior version of the allocation never
  coexist with freshly regenerated ones.

OWNERSHIP:
  A derived requirement is owned by its SourceAllocationID. It is deleted
  when it has no allocations of its own; once somebody has been allocated
  against it, it is load-bearing and cleanup leaves it alone.

ERROR POLICY:
  Per-leave and per-step failures are logged and skipped; the entrypoint
  returns whatever it managed to create. A returned error means the whole
  operation could not run (allocation unreadable, store down) - callers
  log it and never roll back the primary mutation that triggered us.

SEE ALSO:
  - cascade.go: re-invokes these steps when leave changes
  - gaps.go: where the derived requirements show up as gaps
*/
package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine derives, deduplicates and cleans up auto-generated requirements.
type Engine struct {
	Store Store
	Log   zerolog.Logger
}

// NewEngine creates an auto-generation engine over the given store.
func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{
		Store: store,
		Log:   log.With().Str("component", "autogen").Logger(),
	}
}

// GenerationResult is what one ProcessAllocation run created.
type GenerationResult struct {
	LeaveCoverage []Requirement
	PartialGaps   []Requirement
}

// Created returns the total number of requirements created.
func (r GenerationResult) Created() int {
	return len(r.LeaveCoverage) + len(r.PartialGaps)
}

// =============================================================================
// ENTRY POINT - Called after every allocation create/update commits
// =============================================================================

// ProcessAllocation runs the full cleanup-then-generate cycle for one
// allocation. Safe to re-run: cleanup removes stale unallocated derived
// rows first, and both generation steps are idempotent. A missing
// allocation is a no-op, not an error.
func (e *Engine) ProcessAllocation(ctx context.Context, allocationID AllocationID) (GenerationResult, error) {
	var result GenerationResult

	deleted, err := e.CleanupAllocation(ctx, allocationID)
	if err != nil {
		return result, fmt.Errorf("cleanup pass: %w", err)
	}
	if len(deleted) > 0 {
		e.Log.Debug().
			Str("allocation_id", string(allocationID)).
			Int("deleted", len(deleted)).
			Msg("removed stale auto-generated requirements")
	}

	alloc, err := e.Store.GetAllocation(ctx, allocationID)
	if err != nil {
		return result, fmt.Errorf("load allocation: %w", err)
	}
	if alloc == nil {
		return result, nil
	}

	result.LeaveCoverage = e.leaveCoverageForAllocation(ctx, alloc)

	partial, err := e.partialGapForAllocation(ctx, alloc)
	if err != nil {
		e.Log.Error().Err(err).
			Str("allocation_id", string(allocationID)).
			Msg("partial-gap generation failed")
	} else if partial != nil {
		result.PartialGaps = append(result.PartialGaps, *partial)
	}

	return result, nil
}

// =============================================================================
// CLEANUP PASS
// =============================================================================

// CleanupAllocation deletes every requirement sourced by allocationID
// that currently has zero allocations referencing it. Requirements that
// have been allocated against are load-bearing and are preserved:
// deleting them would orphan real allocations. Returns the deleted ids.
//
// Called standalone before an allocation delete commits, and as the
// first step of ProcessAllocation.
func (e *Engine) CleanupAllocation(ctx context.Context, allocationID AllocationID) ([]RequirementID, error) {
	derived, err := e.Store.RequirementsBySourceAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}

	var deleted []RequirementID
	for _, req := range derived {
		attached, err := e.Store.AllocationsByRequirement(ctx, req.ID)
		if err != nil {
			e.Log.Error().Err(err).
				Str("requirement_id", string(req.ID)).
				Msg("could not count attached allocations, skipping cleanup of requirement")
			continue
		}
		if len(attached) > 0 {
			continue // load-bearing
		}
		if err := e.Store.DeleteRequirement(ctx, req.ID); err != nil {
			e.Log.Error().Err(err).
				Str("requirement_id", string(req.ID)).
				Msg("failed to delete stale auto-generated requirement")
			continue
		}
		deleted = append(deleted, req.ID)
	}
	return deleted, nil
}

// =============================================================================
// LEAVE-COVERAGE GENERATION
// =============================================================================

// GenerateLeaveCoverage runs only the leave-coverage step for one
// allocation. Used by the cascade handler when a leave period is created:
// until the leave is approved the overlap query matches nothing and this
// is a no-op. A missing allocation is a no-op.
func (e *Engine) GenerateLeaveCoverage(ctx context.Context, allocationID AllocationID) ([]Requirement, error) {
	alloc, err := e.Store.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, nil
	}
	return e.leaveCoverageForAllocation(ctx, alloc), nil
}

// leaveCoverageForAllocation creates one leave-coverage requirement per
// approved leave period overlapping the allocation window. Windows are
// not merged even when leave periods overlap each other. Failures on one
// leave period are logged and skipped; the rest still generate.
func (e *Engine) leaveCoverageForAllocation(ctx context.Context, alloc *Allocation) []Requirement {
	leaves, err := e.Store.LeavePeriodsOverlapping(ctx, alloc.PersonID, LeaveApproved, alloc.Window)
	if err != nil {
		e.Log.Error().Err(err).
			Str("allocation_id", string(alloc.ID)).
			Msg("could not load approved leave, skipping leave-coverage generation")
		return nil
	}

	existing, err := e.Store.RequirementsBySourceAllocation(ctx, alloc.ID)
	if err != nil {
		e.Log.Error().Err(err).
			Str("allocation_id", string(alloc.ID)).
			Msg("could not load existing derived requirements, skipping leave-coverage generation")
		return nil
	}

	var created []Requirement
	for _, leave := range leaves {
		coverage, ok := alloc.Window.Intersect(leave.Window)
		if !ok {
			continue
		}

		// Dedupe by (source allocation, coverage window): the cascade can
		// invoke this step without a preceding cleanup pass.
		if hasLeaveCoverageFor(existing, coverage) {
			continue
		}

		req := Requirement{
			ID:                  RequirementID(NewID()),
			ProjectID:           alloc.ProjectID,
			RoleTypeID:          alloc.RoleTypeID,
			Window:              coverage,
			RequiredCount:       alloc.Capacity(),
			AutoGenType:         AutoGenLeaveCoverage,
			SourceAllocationID:  alloc.ID,
			ParentRequirementID: alloc.RequirementID,
			CreatedAt:           time.Now().UTC(),
		}
		if err := e.Store.SaveRequirement(ctx, req); err != nil {
			e.Log.Error().Err(err).
				Str("allocation_id", string(alloc.ID)).
				Str("leave_id", string(leave.ID)).
				Msg("failed to create leave-coverage requirement")
			continue
		}
		existing = append(existing, req)
		created = append(created, req)
	}
	return created
}

func hasLeaveCoverageFor(reqs []Requirement, window DateWindow) bool {
	for _, r := range reqs {
		if r.AutoGenType == AutoGenLeaveCoverage &&
			r.Window.Start.Equal(window.Start) && r.Window.End.Equal(window.End) {
			return true
		}
	}
	return false
}

// =============================================================================
// PARTIAL-GAP GENERATION
// =============================================================================

// partialGapForAllocation creates the single partial-gap requirement for
// an allocation that fills less than 100% of a manual requirement slot.
// Auto-generated parents never spawn partial-gap children: that would
// open a runaway derivation chain. Idempotent: an existing partial-gap
// row for this allocation is returned unchanged.
func (e *Engine) partialGapForAllocation(ctx context.Context, alloc *Allocation) (*Requirement, error) {
	if alloc.RequirementID == "" || alloc.Percent.GreaterThanOrEqual(hundred) {
		return nil, nil
	}

	parent, err := e.Store.GetRequirement(ctx, alloc.RequirementID)
	if err != nil {
		return nil, err
	}
	if parent == nil || parent.IsAutoGenerated() {
		return nil, nil
	}

	existing, err := e.Store.RequirementsBySourceAllocation(ctx, alloc.ID)
	if err != nil {
		return nil, err
	}
	for _, req := range existing {
		if req.AutoGenType == AutoGenPartialGap {
			return &req, nil
		}
	}

	req := Requirement{
		ID:                  RequirementID(NewID()),
		ProjectID:           alloc.ProjectID,
		RoleTypeID:          alloc.RoleTypeID,
		Window:              alloc.Window,
		RequiredCount:       hundred.Sub(alloc.Percent).Div(hundred),
		AutoGenType:         AutoGenPartialGap,
		SourceAllocationID:  alloc.ID,
		ParentRequirementID: alloc.RequirementID,
		CreatedAt:           time.Now().UTC(),
	}
	if err := e.Store.SaveRequirement(ctx, req); err != nil {
		if IsConflict(err) {
			// Lost a race with a concurrent run; the row exists, fetch it.
			return e.existingPartialGap(ctx, alloc.ID)
		}
		return nil, err
	}
	return &req, nil
}

func (e *Engine) existingPartialGap(ctx context.Context, allocationID AllocationID) (*Requirement, error) {
	reqs, err := e.Store.RequirementsBySourceAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if req.AutoGenType == AutoGenPartialGap {
			return &req, nil
		}
	}
	return nil, nil
}

// =============================================================================
// MANUAL REQUIREMENT LIFECYCLE
// =============================================================================

// RemoveRequirement deletes a manually authored requirement along with
// its auto-generated children. Allocations referencing the requirement or
// a deleted child are orphaned (RequirementID cleared), not deleted.
// Auto-generated requirements cannot be removed this way; operators
// silence them with SetRequirementIgnored instead.
func (e *Engine) RemoveRequirement(ctx context.Context, id RequirementID) error {
	req, err := e.Store.GetRequirement(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequirementNotFound
	}
	if req.IsAutoGenerated() {
		return ErrAutoGenerated
	}

	children, err := e.Store.AutoGeneratedChildren(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := e.Store.OrphanAllocations(ctx, child.ID); err != nil {
			return err
		}
		if err := e.Store.DeleteRequirement(ctx, child.ID); err != nil {
			return err
		}
	}

	if err := e.Store.OrphanAllocations(ctx, id); err != nil {
		return err
	}
	return e.Store.DeleteRequirement(ctx, id)
}

// SetRequirementIgnored flips the ignored flag. Ignored requirements are
// excluded from gap counts but remain stored for audit and restore.
func (e *Engine) SetRequirementIgnored(ctx context.Context, id RequirementID, ignored bool) (*Requirement, error) {
	req, err := e.Store.GetRequirement(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequirementNotFound
	}
	if req.Ignored == ignored {
		return req, nil
	}
	req.Ignored = ignored
	if err := e.Store.SaveRequirement(ctx, *req); err != nil {
		return nil, err
	}
	return req, nil
}
