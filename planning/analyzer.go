/*
analyzer.go - Read-only utilization and over-allocation views

PURPOSE:
  Pure read-side calculations over allocations: how much of a person's
  capacity is committed in a window, and who is booked past 100%.

TWO DELIBERATELY DIFFERENT VIEWS:
  PersonUtilization caps its answer at 100 - it is a display number and
  the cap discards the magnitude of over-allocation. OverAllocatedPeople
  recomputes pairwise overlaps WITHOUT the cap to detect and report the
  >100% condition. Do not unify them: dashboards want the capped number,
  conflict reports want the raw one.

SEE ALSO:
  - gaps.go: the other read-only consumer of allocations
*/
package planning

import (
	"context"

	"github.com/shopspring/decimal"
)

// Analyzer hosts the read-only calculations: utilization, over-allocation
// detection and gap analysis. It never mutates the store.
type Analyzer struct {
	Store Store
}

// NewAnalyzer creates an analyzer over the given store.
func NewAnalyzer(store Store) *Analyzer {
	return &Analyzer{Store: store}
}

// =============================================================================
// UTILIZATION
// =============================================================================

// PersonUtilization sums the person's allocation percentages over every
// allocation that overlaps window, capped at 100 for display.
func (a *Analyzer) PersonUtilization(ctx context.Context, personID PersonID, window DateWindow) (decimal.Decimal, error) {
	allocs, err := a.Store.AllocationsByPerson(ctx, personID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, alloc := range allocs {
		if alloc.Window.Overlaps(window) {
			total = total.Add(alloc.Percent)
		}
	}

	if total.GreaterThan(hundred) {
		return hundred, nil
	}
	return total, nil
}

// =============================================================================
// OVER-ALLOCATION DETECTION
// =============================================================================

// AllocationConflict is one pair of allocations for the same person whose
// windows overlap and whose combined percentage exceeds 100.
type AllocationConflict struct {
	First    Allocation
	Second   Allocation
	Window   DateWindow // intersection of the two allocation windows
	Combined decimal.Decimal
}

// OverAllocation reports a person booked past 100% somewhere in the
// queried window. Peak is the largest uncapped pairwise total found.
type OverAllocation struct {
	PersonID  PersonID
	Peak      decimal.Decimal
	Conflicts []AllocationConflict
}

// OverAllocatedPeople scans every person's allocations inside window and
// reports pairwise overlaps whose combined percentage exceeds 100. Unlike
// PersonUtilization the totals here are never capped.
func (a *Analyzer) OverAllocatedPeople(ctx context.Context, window DateWindow) ([]OverAllocation, error) {
	people, err := a.Store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	var out []OverAllocation
	for _, person := range people {
		allocs, err := a.Store.AllocationsByPerson(ctx, person.ID)
		if err != nil {
			return nil, err
		}

		var inRange []Allocation
		for _, alloc := range allocs {
			if alloc.Window.Overlaps(window) {
				inRange = append(inRange, alloc)
			}
		}

		over := OverAllocation{PersonID: person.ID, Peak: decimal.Zero}
		for i := 0; i < len(inRange); i++ {
			for j := i + 1; j < len(inRange); j++ {
				shared, ok := inRange[i].Window.Intersect(inRange[j].Window)
				if !ok {
					continue
				}
				combined := inRange[i].Percent.Add(inRange[j].Percent)
				if combined.LessThanOrEqual(hundred) {
					continue
				}
				over.Conflicts = append(over.Conflicts, AllocationConflict{
					First:    inRange[i],
					Second:   inRange[j],
					Window:   shared,
					Combined: combined,
				})
				if combined.GreaterThan(over.Peak) {
					over.Peak = combined
				}
			}
		}

		if len(over.Conflicts) > 0 {
			out = append(out, over)
		}
	}
	return out, nil
}
