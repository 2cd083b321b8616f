/*
cascade.go - Leave-change cascades over derived requirements

PURPOSE:
  Reacts to leave-period creation, status transitions and deletion by
  re-running or retracting auto-generation against every allocation that
  temporally overlaps the affected person's leave window. The cascade is
  invoked by the API layer AFTER the leave mutation commits; a cascade
  failure never rolls back or fails the leave mutation itself.

IDEMPOTENCY:
  Every entrypoint is safe to re-run. Approval routes through the full
  cleanup+generate cycle, so double-firing an approval event cannot
  duplicate leave-coverage requirements.

SERIALIZATION:
  Cascades for the same person are serialized behind a per-person mutex.
  Two allocations sharing a person/leave overlap would otherwise
  interleave cleanup and generation.

SEE ALSO:
  - autogen.go: the per-allocation steps this handler re-invokes
*/
package planning

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Cascade handles leave-driven updates to auto-generated requirements.
type Cascade struct {
	Store  Store
	Engine *Engine
	Log    zerolog.Logger

	mu    sync.Mutex
	locks map[PersonID]*sync.Mutex
}

// NewCascade creates a cascade handler sharing the engine's store.
func NewCascade(store Store, engine *Engine, log zerolog.Logger) *Cascade {
	return &Cascade{
		Store:  store,
		Engine: engine,
		Log:    log.With().Str("component", "cascade").Logger(),
		locks:  make(map[PersonID]*sync.Mutex),
	}
}

// lockPerson serializes cascade execution per person. Returns the unlock.
func (c *Cascade) lockPerson(personID PersonID) func() {
	c.mu.Lock()
	l, ok := c.locks[personID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[personID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// =============================================================================
// LEAVE CREATED
// =============================================================================

// OnLeaveCreated proactively re-runs the leave-coverage step for every
// allocation overlapping the new leave window, regardless of the leave's
// status: the generation step only considers approved leave, so for
// pending leave this is a no-op and the real work happens at approval.
// Running it anyway keeps the behavior uniform when leave is created
// already-approved. A missing leave period is a no-op.
func (c *Cascade) OnLeaveCreated(ctx context.Context, personID PersonID, leaveID LeaveID) error {
	defer c.lockPerson(personID)()

	leave, err := c.Store.GetLeavePeriod(ctx, leaveID)
	if err != nil {
		return err
	}
	if leave == nil {
		c.Log.Warn().Str("leave_id", string(leaveID)).Msg("leave period vanished before cascade ran")
		return nil
	}

	allocs, err := c.overlappingAllocations(ctx, personID, leave.Window)
	if err != nil {
		return err
	}
	for _, alloc := range allocs {
		if _, err := c.Engine.GenerateLeaveCoverage(ctx, alloc.ID); err != nil {
			c.Log.Error().Err(err).
				Str("allocation_id", string(alloc.ID)).
				Str("leave_id", string(leaveID)).
				Msg("leave-coverage generation failed for allocation")
		}
	}
	return nil
}

// =============================================================================
// LEAVE STATUS CHANGED
// =============================================================================

// OnLeaveStatusChanged cascades a status transition. Only moves into or
// out of approved have side effects:
//
//	approved:   run the full cleanup+generate cycle on every overlapping
//	            allocation (idempotent, no duplicate coverage rows)
//	unapproved: retract unallocated leave-coverage requirements whose
//	            windows overlap THIS leave period specifically
//	pending:    nothing - coverage is only material for approved leave
func (c *Cascade) OnLeaveStatusChanged(ctx context.Context, personID PersonID, leaveID LeaveID, newStatus LeaveStatus) error {
	defer c.lockPerson(personID)()

	leave, err := c.Store.GetLeavePeriod(ctx, leaveID)
	if err != nil {
		return err
	}
	if leave == nil {
		c.Log.Warn().Str("leave_id", string(leaveID)).Msg("leave period vanished before cascade ran")
		return nil
	}

	allocs, err := c.overlappingAllocations(ctx, personID, leave.Window)
	if err != nil {
		return err
	}

	switch newStatus {
	case LeaveApproved:
		for _, alloc := range allocs {
			if _, err := c.Engine.ProcessAllocation(ctx, alloc.ID); err != nil {
				c.Log.Error().Err(err).
					Str("allocation_id", string(alloc.ID)).
					Str("leave_id", string(leaveID)).
					Msg("regeneration failed for allocation after leave approval")
			}
		}

	case LeaveUnapproved:
		for _, alloc := range allocs {
			c.retractLeaveCoverage(ctx, alloc.ID, leave.Window)
		}

	case LeavePending:
		// No action.
	}
	return nil
}

// =============================================================================
// LEAVE DELETED
// =============================================================================

// OnLeaveDeleted cleans up after a leave period is removed. Only approved
// leave ever produced coverage requirements, so deleting pending or
// unapproved leave is a no-op. The deleted row is passed in by value
// because it no longer exists in the store.
func (c *Cascade) OnLeaveDeleted(ctx context.Context, personID PersonID, deleted LeavePeriod) error {
	defer c.lockPerson(personID)()

	if deleted.Status != LeaveApproved {
		return nil
	}

	allocs, err := c.overlappingAllocations(ctx, personID, deleted.Window)
	if err != nil {
		return err
	}
	for _, alloc := range allocs {
		c.retractLeaveCoverage(ctx, alloc.ID, deleted.Window)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Cascade) overlappingAllocations(ctx context.Context, personID PersonID, window DateWindow) ([]Allocation, error) {
	allocs, err := c.Store.AllocationsByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	var out []Allocation
	for _, alloc := range allocs {
		if alloc.Window.Overlaps(window) {
			out = append(out, alloc)
		}
	}
	return out, nil
}

// retractLeaveCoverage deletes leave-coverage requirements sourced by
// allocationID whose windows overlap leaveWindow - only the rows
// attributable to this leave period, not all coverage for the
// allocation. Load-bearing rows (with attached allocations) survive.
func (c *Cascade) retractLeaveCoverage(ctx context.Context, allocationID AllocationID, leaveWindow DateWindow) {
	derived, err := c.Store.RequirementsBySourceAllocation(ctx, allocationID)
	if err != nil {
		c.Log.Error().Err(err).
			Str("allocation_id", string(allocationID)).
			Msg("could not load derived requirements for retraction")
		return
	}

	for _, req := range derived {
		if req.AutoGenType != AutoGenLeaveCoverage || !req.Window.Overlaps(leaveWindow) {
			continue
		}
		attached, err := c.Store.AllocationsByRequirement(ctx, req.ID)
		if err != nil {
			c.Log.Error().Err(err).
				Str("requirement_id", string(req.ID)).
				Msg("could not count attached allocations, keeping requirement")
			continue
		}
		if len(attached) > 0 {
			continue // load-bearing
		}
		if err := c.Store.DeleteRequirement(ctx, req.ID); err != nil {
			c.Log.Error().Err(err).
				Str("requirement_id", string(req.ID)).
				Msg("failed to retract leave-coverage requirement")
		}
	}
}
