package planning_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// LEAVE CREATED
// =============================================================================

func TestOnLeaveCreated_ApprovedLeaveGeneratesCoverage(t *testing.T) {
	// GIVEN: an allocation, then leave created already approved
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeaveApproved,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))

	// WHEN: the creation cascade fires
	require.NoError(t, f.cascade.OnLeaveCreated(f.ctx, person.ID, leave.ID))

	// THEN: coverage exists for the leave window
	covs := f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	require.Len(t, covs, 1)
	assert.Equal(t, "2024-03-01", covs[0].Window.Start.String())
}

func TestOnLeaveCreated_PendingLeaveIsNoOp(t *testing.T) {
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeavePending,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))

	require.NoError(t, f.cascade.OnLeaveCreated(f.ctx, person.ID, leave.ID))

	covs := f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	assert.Empty(t, covs)
}

func TestOnLeaveCreated_MissingLeaveIsNoOp(t *testing.T) {
	f := newFixture(t)
	_, person, _ := f.seedRoster(t)
	assert.NoError(t, f.cascade.OnLeaveCreated(f.ctx, person.ID, "no-such-leave"))
}

// =============================================================================
// LEAVE STATUS TRANSITIONS
// =============================================================================

func TestOnLeaveStatusChanged_ApproveUnapproveRoundTrip(t *testing.T) {
	// GIVEN: pending leave over an allocation
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeavePending,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))

	// WHEN: approving
	leave.Status = planning.LeaveApproved
	require.NoError(t, f.store.SaveLeavePeriod(f.ctx, leave))
	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, leave.ID, planning.LeaveApproved))

	// THEN: coverage appears
	covs := f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	require.Len(t, covs, 1)

	// WHEN: un-approving again
	leave.Status = planning.LeaveUnapproved
	require.NoError(t, f.store.SaveLeavePeriod(f.ctx, leave))
	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, leave.ID, planning.LeaveUnapproved))

	// THEN: the coverage is retracted; the system is back where it started
	covs = f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	assert.Empty(t, covs)
}

func TestOnLeaveStatusChanged_DoubleApprovalDoesNotDuplicate(t *testing.T) {
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeaveApproved,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))

	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, leave.ID, planning.LeaveApproved))
	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, leave.ID, planning.LeaveApproved))

	covs := f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	assert.Len(t, covs, 1)
}

func TestOnLeaveStatusChanged_UnapproveRetractsOnlyThisLeave(t *testing.T) {
	// GIVEN: two approved leaves, both with coverage
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	alloc := f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	first := f.seedLeave(t, "leave-1", person, planning.LeaveApproved,
		window(date(2024, time.February, 1), date(2024, time.February, 7)))
	f.seedLeave(t, "leave-2", person, planning.LeaveApproved,
		window(date(2024, time.April, 1), date(2024, time.April, 7)))

	_, err := f.engine.ProcessAllocation(f.ctx, alloc.ID)
	require.NoError(t, err)
	require.Len(t, f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage), 2)

	// WHEN: un-approving only the first leave
	first.Status = planning.LeaveUnapproved
	require.NoError(t, f.store.SaveLeavePeriod(f.ctx, first))
	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, first.ID, planning.LeaveUnapproved))

	// THEN: only the February coverage is retracted
	covs := f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	require.Len(t, covs, 1)
	assert.Equal(t, "2024-04-01", covs[0].Window.Start.String())
}

func TestOnLeaveStatusChanged_UnapprovePreservesLoadBearingCoverage(t *testing.T) {
	// GIVEN: coverage that somebody has already been allocated against
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeaveApproved,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))
	require.NoError(t, f.cascade.OnLeaveCreated(f.ctx, person.ID, leave.ID))

	covs := f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	require.Len(t, covs, 1)

	backfill := planning.Person{ID: "person-grace", Name: "Grace", RoleTypeID: role.ID}
	require.NoError(t, f.store.SavePerson(f.ctx, backfill))
	f.seedAllocation(t, "alloc-2", backfill, project, role, covs[0].ID, 100, covs[0].Window)

	// WHEN: the leave is un-approved
	leave.Status = planning.LeaveUnapproved
	require.NoError(t, f.store.SaveLeavePeriod(f.ctx, leave))
	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, leave.ID, planning.LeaveUnapproved))

	// THEN: the load-bearing coverage survives
	covs = f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage)
	assert.Len(t, covs, 1)
}

func TestOnLeaveStatusChanged_PendingIsNoOp(t *testing.T) {
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeavePending,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))

	require.NoError(t, f.cascade.OnLeaveStatusChanged(f.ctx, person.ID, leave.ID, planning.LeavePending))
	assert.Empty(t, f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage))
}

// =============================================================================
// LEAVE DELETED
// =============================================================================

func TestOnLeaveDeleted_ApprovedLeaveRetractsCoverage(t *testing.T) {
	f := newFixture(t)
	role, person, project := f.seedRoster(t)
	f.seedAllocation(t, "alloc-1", person, project, role, "", 100,
		window(date(2024, time.January, 1), date(2024, time.June, 30)))
	leave := f.seedLeave(t, "leave-1", person, planning.LeaveApproved,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))
	require.NoError(t, f.cascade.OnLeaveCreated(f.ctx, person.ID, leave.ID))
	require.Len(t, f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage), 1)

	// WHEN: the leave row is deleted and the cascade fires with the old row
	require.NoError(t, f.store.DeleteLeavePeriod(f.ctx, leave.ID))
	require.NoError(t, f.cascade.OnLeaveDeleted(f.ctx, person.ID, leave))

	// THEN: the coverage is retracted
	assert.Empty(t, f.requirementsOfType(t, project.ID, planning.AutoGenLeaveCoverage))
}

func TestOnLeaveDeleted_PendingLeaveIsNoOp(t *testing.T) {
	f := newFixture(t)
	_, person, _ := f.seedRoster(t)
	leave := f.seedLeave(t, "leave-1", person, planning.LeavePending,
		window(date(2024, time.March, 1), date(2024, time.March, 15)))

	require.NoError(t, f.store.DeleteLeavePeriod(f.ctx, leave.ID))
	assert.NoError(t, f.cascade.OnLeaveDeleted(f.ctx, person.ID, leave))
}
