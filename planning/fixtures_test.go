package planning_test

// Shared fixtures for the planning package tests. Every test runs
// against the in-memory store; the sqlite package has its own suite.

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/warp/staffing-engine/planning"
	"github.com/warp/staffing-engine/planning/store"
)

// fixture bundles the engine components most tests need.
type fixture struct {
	ctx      context.Context
	store    *store.Memory
	engine   *planning.Engine
	cascade  *planning.Cascade
	analyzer *planning.Analyzer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	engine := planning.NewEngine(mem, zerolog.Nop())
	return &fixture{
		ctx:      context.Background(),
		store:    mem,
		engine:   engine,
		cascade:  planning.NewCascade(mem, engine, zerolog.Nop()),
		analyzer: planning.NewAnalyzer(mem),
	}
}

func date(year int, month time.Month, day int) planning.Date {
	return planning.NewDate(year, month, day)
}

func window(start, end planning.Date) planning.DateWindow {
	return planning.DateWindow{Start: start, End: end}
}

func pct(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func count(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// seedRoster creates a role type, a person with that role and a project
// spanning all of 2024.
func (f *fixture) seedRoster(t *testing.T) (planning.RoleType, planning.Person, planning.Project) {
	t.Helper()

	role := planning.RoleType{ID: "role-eng", Name: "Engineer"}
	require.NoError(t, f.store.SaveRoleType(f.ctx, role))

	person := planning.Person{ID: "person-ada", Name: "Ada", RoleTypeID: role.ID}
	require.NoError(t, f.store.SavePerson(f.ctx, person))

	project := planning.Project{
		ID:     "project-apollo",
		Name:   "Apollo",
		Window: window(date(2024, time.January, 1), date(2024, time.December, 31)),
	}
	require.NoError(t, f.store.SaveProject(f.ctx, project))

	return role, person, project
}

func (f *fixture) seedRequirement(t *testing.T, id string, project planning.Project, role planning.RoleType, w planning.DateWindow, required float64) planning.Requirement {
	t.Helper()
	req := planning.Requirement{
		ID:            planning.RequirementID(id),
		ProjectID:     project.ID,
		RoleTypeID:    role.ID,
		Window:        w,
		RequiredCount: count(required),
	}
	require.NoError(t, f.store.SaveRequirement(f.ctx, req))
	return req
}

func (f *fixture) seedAllocation(t *testing.T, id string, person planning.Person, project planning.Project, role planning.RoleType, reqID planning.RequirementID, percent float64, w planning.DateWindow) planning.Allocation {
	t.Helper()
	alloc := planning.Allocation{
		ID:            planning.AllocationID(id),
		ProjectID:     project.ID,
		PersonID:      person.ID,
		RoleTypeID:    role.ID,
		RequirementID: reqID,
		Percent:       pct(percent),
		Window:        w,
	}
	require.NoError(t, f.store.SaveAllocation(f.ctx, alloc))
	return alloc
}

func (f *fixture) seedLeave(t *testing.T, id string, person planning.Person, status planning.LeaveStatus, w planning.DateWindow) planning.LeavePeriod {
	t.Helper()
	leave := planning.LeavePeriod{
		ID:       planning.LeaveID(id),
		PersonID: person.ID,
		Window:   w,
		Status:   status,
	}
	require.NoError(t, f.store.SaveLeavePeriod(f.ctx, leave))
	return leave
}

// requirementsOfType filters a project's requirements by generation type.
func (f *fixture) requirementsOfType(t *testing.T, projectID planning.ProjectID, gen planning.AutoGenType) []planning.Requirement {
	t.Helper()
	all, err := f.store.RequirementsByProject(f.ctx, projectID)
	require.NoError(t, err)

	var out []planning.Requirement
	for _, r := range all {
		if r.AutoGenType == gen {
			out = append(out, r)
		}
	}
	return out
}
