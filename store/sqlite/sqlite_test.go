package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/staffing-engine/planning"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func feb2024() planning.DateWindow {
	return planning.DateWindow{
		Start: planning.NewDate(2024, time.February, 1),
		End:   planning.NewDate(2024, time.February, 29),
	}
}

// seedRefs creates the foreign-key targets most rows need.
func seedRefs(t *testing.T, ctx context.Context, s *Store) (planning.RoleType, planning.Person, planning.Project) {
	t.Helper()

	role := planning.RoleType{ID: "role-eng", Name: "Engineer"}
	require.NoError(t, s.SaveRoleType(ctx, role))

	person := planning.Person{ID: "person-ada", Name: "Ada", RoleTypeID: role.ID}
	require.NoError(t, s.SavePerson(ctx, person))

	project := planning.Project{
		ID:   "project-apollo",
		Name: "Apollo",
		Window: planning.DateWindow{
			Start: planning.NewDate(2024, time.January, 1),
			End:   planning.NewDate(2024, time.December, 31),
		},
	}
	require.NoError(t, s.SaveProject(ctx, project))

	return role, person, project
}

// =============================================================================
// ROUND TRIPS
// =============================================================================

func TestRoleType_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rt := planning.RoleType{ID: "role-1", Name: "Designer"}
	require.NoError(t, s.SaveRoleType(ctx, rt))

	got, err := s.GetRoleType(ctx, "role-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Designer", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	// Upsert renames in place.
	rt.Name = "Product Designer"
	require.NoError(t, s.SaveRoleType(ctx, rt))
	list, err := s.ListRoleTypes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Product Designer", list[0].Name)
}

func TestGet_MissingRowIsNilNotError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rt, err := s.GetRoleType(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, rt)

	req, err := s.GetRequirement(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, req)

	alloc, err := s.GetAllocation(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, alloc)

	leave, err := s.GetLeavePeriod(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, leave)
}

func TestRequirement_RoundTripPreservesDecimalAndMetadata(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	role, _, project := seedRefs(t, ctx, s)

	req := planning.Requirement{
		ID:            "req-1",
		ProjectID:     project.ID,
		RoleTypeID:    role.ID,
		Window:        feb2024(),
		RequiredCount: decimal.RequireFromString("0.4"),
		Notes:         "backfill",
	}
	require.NoError(t, s.SaveRequirement(ctx, req))

	got, err := s.GetRequirement(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.RequiredCount.Equal(decimal.RequireFromString("0.4")), "count %s", got.RequiredCount)
	assert.Equal(t, "2024-02-01", got.Window.Start.String())
	assert.Equal(t, "2024-02-29", got.Window.End.String())
	assert.Equal(t, planning.AutoGenNone, got.AutoGenType)
	assert.False(t, got.IsAutoGenerated())
	assert.Equal(t, "backfill", got.Notes)
}

func TestAllocation_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	role, person, project := seedRefs(t, ctx, s)

	alloc := planning.Allocation{
		ID:         "alloc-1",
		ProjectID:  project.ID,
		PersonID:   person.ID,
		RoleTypeID: role.ID,
		Percent:    decimal.NewFromInt(60),
		Window:     feb2024(),
	}
	require.NoError(t, s.SaveAllocation(ctx, alloc))

	got, err := s.GetAllocation(ctx, "alloc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Percent.Equal(decimal.NewFromInt(60)))
	assert.Empty(t, got.RequirementID)

	byPerson, err := s.AllocationsByPerson(ctx, person.ID)
	require.NoError(t, err)
	assert.Len(t, byPerson, 1)
}

// =============================================================================
// DERIVED-REQUIREMENT QUERIES
// =============================================================================

func TestDerivedRequirementQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	role, person, project := seedRefs(t, ctx, s)

	parent := planning.Requirement{
		ID: "req-parent", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.NewFromInt(1),
	}
	require.NoError(t, s.SaveRequirement(ctx, parent))

	alloc := planning.Allocation{
		ID: "alloc-1", ProjectID: project.ID, PersonID: person.ID,
		RoleTypeID: role.ID, RequirementID: parent.ID,
		Percent: decimal.NewFromInt(60), Window: feb2024(),
	}
	require.NoError(t, s.SaveAllocation(ctx, alloc))

	child := planning.Requirement{
		ID: "req-child", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.RequireFromString("0.4"),
		AutoGenType:         planning.AutoGenPartialGap,
		SourceAllocationID:  alloc.ID,
		ParentRequirementID: parent.ID,
	}
	require.NoError(t, s.SaveRequirement(ctx, child))

	bySource, err := s.RequirementsBySourceAllocation(ctx, alloc.ID)
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, planning.RequirementID("req-child"), bySource[0].ID)

	children, err := s.AutoGeneratedChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, planning.AutoGenPartialGap, children[0].AutoGenType)
}

func TestSaveRequirement_DuplicatePartialGapRejected(t *testing.T) {
	// One partial-gap row per source allocation, enforced by the store.
	ctx := context.Background()
	s := newTestStore(t)
	role, person, project := seedRefs(t, ctx, s)

	parent := planning.Requirement{
		ID: "req-parent", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.NewFromInt(1),
	}
	require.NoError(t, s.SaveRequirement(ctx, parent))

	alloc := planning.Allocation{
		ID: "alloc-1", ProjectID: project.ID, PersonID: person.ID,
		RoleTypeID: role.ID, RequirementID: parent.ID,
		Percent: decimal.NewFromInt(60), Window: feb2024(),
	}
	require.NoError(t, s.SaveAllocation(ctx, alloc))

	gap := planning.Requirement{
		ID: "gap-1", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.RequireFromString("0.4"),
		AutoGenType:         planning.AutoGenPartialGap,
		SourceAllocationID:  alloc.ID,
		ParentRequirementID: parent.ID,
	}
	require.NoError(t, s.SaveRequirement(ctx, gap))

	// Re-saving the same row is an upsert, not a duplicate.
	require.NoError(t, s.SaveRequirement(ctx, gap))

	dup := gap
	dup.ID = "gap-2"
	err := s.SaveRequirement(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, planning.ErrDuplicatePartialGap)
	assert.True(t, planning.IsConflict(err))
}

func TestOrphanAllocations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	role, person, project := seedRefs(t, ctx, s)

	req := planning.Requirement{
		ID: "req-1", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.NewFromInt(1),
	}
	require.NoError(t, s.SaveRequirement(ctx, req))
	require.NoError(t, s.SaveAllocation(ctx, planning.Allocation{
		ID: "alloc-1", ProjectID: project.ID, PersonID: person.ID,
		RoleTypeID: role.ID, RequirementID: req.ID,
		Percent: decimal.NewFromInt(100), Window: feb2024(),
	}))

	require.NoError(t, s.OrphanAllocations(ctx, req.ID))

	got, err := s.GetAllocation(ctx, "alloc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.RequirementID)
}

// =============================================================================
// PROJECT DELETE GUARD
// =============================================================================

func TestDeleteProject_BlockedByDependents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	role, _, project := seedRefs(t, ctx, s)

	require.NoError(t, s.SaveRequirement(ctx, planning.Requirement{
		ID: "req-1", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.NewFromInt(1),
	}))

	err := s.DeleteProject(ctx, project.ID)
	assert.ErrorIs(t, err, planning.ErrProjectHasDependents)

	require.NoError(t, s.DeleteRequirement(ctx, "req-1"))
	assert.NoError(t, s.DeleteProject(ctx, project.ID))
}

// =============================================================================
// LEAVE PERIOD QUERIES
// =============================================================================

func TestLeavePeriodsOverlapping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, person, _ := seedRefs(t, ctx, s)

	save := func(id string, status planning.LeaveStatus, start, end planning.Date) {
		require.NoError(t, s.SaveLeavePeriod(ctx, planning.LeavePeriod{
			ID: planning.LeaveID(id), PersonID: person.ID,
			Window: planning.DateWindow{Start: start, End: end},
			Status: status,
		}))
	}

	save("leave-approved", planning.LeaveApproved,
		planning.NewDate(2024, time.February, 10), planning.NewDate(2024, time.February, 20))
	save("leave-pending", planning.LeavePending,
		planning.NewDate(2024, time.February, 10), planning.NewDate(2024, time.February, 20))
	save("leave-outside", planning.LeaveApproved,
		planning.NewDate(2024, time.August, 1), planning.NewDate(2024, time.August, 10))

	got, err := s.LeavePeriodsOverlapping(ctx, person.ID, planning.LeaveApproved, feb2024())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, planning.LeaveID("leave-approved"), got[0].ID)
	assert.Equal(t, planning.LeaveApproved, got[0].Status)
}

// =============================================================================
// ENGINE OVER SQLITE - smoke test that the port behaves like memory
// =============================================================================

func TestEngineOverSQLite_PartialGap(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	role, person, project := seedRefs(t, ctx, s)

	req := planning.Requirement{
		ID: "req-1", ProjectID: project.ID, RoleTypeID: role.ID,
		Window: feb2024(), RequiredCount: decimal.NewFromInt(1),
	}
	require.NoError(t, s.SaveRequirement(ctx, req))
	require.NoError(t, s.SaveAllocation(ctx, planning.Allocation{
		ID: "alloc-1", ProjectID: project.ID, PersonID: person.ID,
		RoleTypeID: role.ID, RequirementID: req.ID,
		Percent: decimal.NewFromInt(60), Window: feb2024(),
	}))

	engine := planning.NewEngine(s, zerolog.Nop())
	result, err := engine.ProcessAllocation(ctx, "alloc-1")
	require.NoError(t, err)
	require.Len(t, result.PartialGaps, 1)
	assert.True(t, result.PartialGaps[0].RequiredCount.Equal(decimal.RequireFromString("0.4")))

	gaps, err := planning.NewAnalyzer(s).ProjectGaps(ctx, project.ID)
	require.NoError(t, err)
	// The derived slot settles the parent, so only the 0.4 child surfaces.
	require.Len(t, gaps, 1)
	assert.Equal(t, planning.AutoGenPartialGap, gaps[0].Requirement.AutoGenType)
	assert.True(t, gaps[0].Shortfall.Equal(decimal.RequireFromString("0.4")))
}
