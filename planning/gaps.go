/*
gaps.go - Gap analysis: declared requirements vs actual staffing

PURPOSE:
  Compares every live requirement in a project against the allocations
  that cover it and emits the positive shortfalls. Read-only; invoked on
  demand by dashboards and the periodic sweep.

MATCHING RULES:
  Direct:  allocation.RequirementID == requirement.ID. Always counts,
           regardless of dates (the link is authoritative).
  Legacy:  orphaned allocations (RequirementID == "") matching the
           requirement's role type with overlapping windows. A fallback
           for allocations created before requirement linkage existed,
           applied in addition to direct matches, never instead of them.

  An allocation is never counted twice: anything already direct-matched
  is excluded from the legacy set.

SINGLE COUNTING OF DERIVED SHORTFALLS:
  A partial-gap child re-advertises the unfilled remainder of its parent
  requirement. That remainder must surface exactly once, on the child:
  the parent is credited with the RequiredCount of its live partial-gap
  children, so it never re-emits the same shortfall, and staffing the
  child settles the parent too.
*/
package planning

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROJECT GAPS
// =============================================================================

// ProjectGaps computes the gap list for one project. Requirements that
// are ignored, missing a role type, or missing dates are skipped. A
// project with no requirements yields an empty list; that is not an
// error. Output order is unspecified; callers sort as needed.
func (a *Analyzer) ProjectGaps(ctx context.Context, projectID ProjectID) ([]Gap, error) {
	reqs, err := a.Store.RequirementsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	allocs, err := a.Store.AllocationsByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// The remainder re-advertised by a partial-gap child is credited back
	// to its parent so the same shortfall is never reported twice.
	childCredit := make(map[RequirementID]decimal.Decimal)
	for _, req := range reqs {
		if req.AutoGenType == AutoGenPartialGap && !req.Ignored && req.ParentRequirementID != "" {
			childCredit[req.ParentRequirementID] = childCredit[req.ParentRequirementID].Add(req.RequiredCount)
		}
	}

	var gaps []Gap
	for _, req := range reqs {
		if req.Ignored || req.RoleTypeID == "" || !req.Window.IsValid() {
			continue
		}

		allocated := childCredit[req.ID]
		counted := make(map[AllocationID]bool)

		// Direct matches take precedence.
		for _, alloc := range allocs {
			if alloc.RequirementID == req.ID {
				allocated = allocated.Add(alloc.Capacity())
				counted[alloc.ID] = true
			}
		}

		// Legacy matches: orphaned, same role, overlapping window.
		for _, alloc := range allocs {
			if counted[alloc.ID] || alloc.RequirementID != "" {
				continue
			}
			if alloc.RoleTypeID == req.RoleTypeID && alloc.Window.Overlaps(req.Window) {
				allocated = allocated.Add(alloc.Capacity())
				counted[alloc.ID] = true
			}
		}

		shortfall := req.RequiredCount.Sub(allocated)
		if shortfall.IsPositive() {
			gaps = append(gaps, Gap{
				Requirement: req,
				Required:    req.RequiredCount,
				Allocated:   allocated,
				Shortfall:   shortfall,
			})
		}
	}
	return gaps, nil
}

// =============================================================================
// ORGANIZATION SWEEP
// =============================================================================

// OrganizationGaps runs gap analysis across every project.
func (a *Analyzer) OrganizationGaps(ctx context.Context) (map[ProjectID][]Gap, error) {
	ids, err := a.Store.ProjectIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[ProjectID][]Gap, len(ids))
	for _, id := range ids {
		gaps, err := a.ProjectGaps(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = gaps
	}
	return out, nil
}

// GapSummary is the rolled-up view cached by the periodic sweep.
type GapSummary struct {
	Projects         int
	ProjectsWithGaps int
	OpenGaps         int
	TotalShortfall   decimal.Decimal
	GeneratedAt      time.Time
}

// SummarizeGaps rolls an organization sweep up into totals.
func SummarizeGaps(byProject map[ProjectID][]Gap) GapSummary {
	summary := GapSummary{
		Projects:       len(byProject),
		TotalShortfall: decimal.Zero,
		GeneratedAt:    time.Now().UTC(),
	}
	for _, gaps := range byProject {
		if len(gaps) > 0 {
			summary.ProjectsWithGaps++
		}
		summary.OpenGaps += len(gaps)
		for _, g := range gaps {
			summary.TotalShortfall = summary.TotalShortfall.Add(g.Shortfall)
		}
	}
	return summary
}
