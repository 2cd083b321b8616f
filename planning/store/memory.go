// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/staffing-engine/planning"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a map-backed planning.Store. Safe for concurrent use.
type Memory struct {
	mu           sync.RWMutex
	roleTypes    map[planning.RoleTypeID]planning.RoleType
	people       map[planning.PersonID]planning.Person
	projects     map[planning.ProjectID]planning.Project
	requirements map[planning.RequirementID]planning.Requirement
	allocations  map[planning.AllocationID]planning.Allocation
	leave        map[planning.LeaveID]planning.LeavePeriod

	// Insertion order, so listings are deterministic.
	projectOrder     []planning.ProjectID
	peopleOrder      []planning.PersonID
	roleTypeOrder    []planning.RoleTypeID
	requirementOrder []planning.RequirementID
	allocationOrder  []planning.AllocationID
	leaveOrder       []planning.LeaveID
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		roleTypes:    make(map[planning.RoleTypeID]planning.RoleType),
		people:       make(map[planning.PersonID]planning.Person),
		projects:     make(map[planning.ProjectID]planning.Project),
		requirements: make(map[planning.RequirementID]planning.Requirement),
		allocations:  make(map[planning.AllocationID]planning.Allocation),
		leave:        make(map[planning.LeaveID]planning.LeavePeriod),
	}
}

var _ planning.Store = (*Memory)(nil)

// =============================================================================
// ROLE TYPES
// =============================================================================

func (m *Memory) SaveRoleType(_ context.Context, rt planning.RoleType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roleTypes[rt.ID]; !ok {
		m.roleTypeOrder = append(m.roleTypeOrder, rt.ID)
	}
	m.roleTypes[rt.ID] = rt
	return nil
}

func (m *Memory) GetRoleType(_ context.Context, id planning.RoleTypeID) (*planning.RoleType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rt, ok := m.roleTypes[id]; ok {
		return &rt, nil
	}
	return nil, nil
}

func (m *Memory) ListRoleTypes(_ context.Context) ([]planning.RoleType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]planning.RoleType, 0, len(m.roleTypeOrder))
	for _, id := range m.roleTypeOrder {
		if rt, ok := m.roleTypes[id]; ok {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (m *Memory) DeleteRoleType(_ context.Context, id planning.RoleTypeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roleTypes, id)
	return nil
}

// =============================================================================
// PEOPLE
// =============================================================================

func (m *Memory) SavePerson(_ context.Context, p planning.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.people[p.ID]; !ok {
		m.peopleOrder = append(m.peopleOrder, p.ID)
	}
	m.people[p.ID] = p
	return nil
}

func (m *Memory) GetPerson(_ context.Context, id planning.PersonID) (*planning.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.people[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *Memory) ListPeople(_ context.Context) ([]planning.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]planning.Person, 0, len(m.peopleOrder))
	for _, id := range m.peopleOrder {
		if p, ok := m.people[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) DeletePerson(_ context.Context, id planning.PersonID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.people, id)
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (m *Memory) SaveProject(_ context.Context, p planning.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		m.projectOrder = append(m.projectOrder, p.ID)
	}
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id planning.ProjectID) (*planning.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]planning.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]planning.Project, 0, len(m.projectOrder))
	for _, id := range m.projectOrder {
		if p, ok := m.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) ProjectIDs(_ context.Context) ([]planning.ProjectID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]planning.ProjectID, 0, len(m.projectOrder))
	for _, id := range m.projectOrder {
		if _, ok := m.projects[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) DeleteProject(_ context.Context, id planning.ProjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requirements {
		if req.ProjectID == id {
			return planning.ErrProjectHasDependents
		}
	}
	for _, alloc := range m.allocations {
		if alloc.ProjectID == id {
			return planning.ErrProjectHasDependents
		}
	}
	delete(m.projects, id)
	return nil
}

// =============================================================================
// REQUIREMENTS
// =============================================================================

func (m *Memory) SaveRequirement(_ context.Context, r planning.Requirement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Mirror the sqlite unique index: one partial-gap row per source
	// allocation.
	if r.AutoGenType == planning.AutoGenPartialGap {
		for _, other := range m.requirements {
			if other.ID != r.ID &&
				other.AutoGenType == planning.AutoGenPartialGap &&
				other.SourceAllocationID == r.SourceAllocationID {
				return planning.ErrDuplicatePartialGap
			}
		}
	}

	if _, ok := m.requirements[r.ID]; !ok {
		m.requirementOrder = append(m.requirementOrder, r.ID)
	}
	m.requirements[r.ID] = r
	return nil
}

func (m *Memory) GetRequirement(_ context.Context, id planning.RequirementID) (*planning.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.requirements[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *Memory) RequirementsByProject(_ context.Context, projectID planning.ProjectID) ([]planning.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.Requirement
	for _, id := range m.requirementOrder {
		if r, ok := m.requirements[id]; ok && r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) RequirementsBySourceAllocation(_ context.Context, allocationID planning.AllocationID) ([]planning.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.Requirement
	for _, id := range m.requirementOrder {
		if r, ok := m.requirements[id]; ok && r.SourceAllocationID == allocationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) AutoGeneratedChildren(_ context.Context, parentID planning.RequirementID) ([]planning.Requirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.Requirement
	for _, id := range m.requirementOrder {
		if r, ok := m.requirements[id]; ok && r.ParentRequirementID == parentID && r.IsAutoGenerated() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) DeleteRequirement(_ context.Context, id planning.RequirementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.requirements, id)
	return nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func (m *Memory) SaveAllocation(_ context.Context, a planning.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[a.ID]; !ok {
		m.allocationOrder = append(m.allocationOrder, a.ID)
	}
	m.allocations[a.ID] = a
	return nil
}

func (m *Memory) GetAllocation(_ context.Context, id planning.AllocationID) (*planning.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.allocations[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *Memory) AllocationsByPerson(_ context.Context, personID planning.PersonID) ([]planning.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.Allocation
	for _, id := range m.allocationOrder {
		if a, ok := m.allocations[id]; ok && a.PersonID == personID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) AllocationsByRequirement(_ context.Context, requirementID planning.RequirementID) ([]planning.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.Allocation
	for _, id := range m.allocationOrder {
		if a, ok := m.allocations[id]; ok && a.RequirementID == requirementID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) AllocationsByProject(_ context.Context, projectID planning.ProjectID) ([]planning.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.Allocation
	for _, id := range m.allocationOrder {
		if a, ok := m.allocations[id]; ok && a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) DeleteAllocation(_ context.Context, id planning.AllocationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.allocations, id)
	return nil
}

func (m *Memory) OrphanAllocations(_ context.Context, requirementID planning.RequirementID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.allocations {
		if a.RequirementID == requirementID {
			a.RequirementID = ""
			m.allocations[id] = a
		}
	}
	return nil
}

// =============================================================================
// LEAVE PERIODS
// =============================================================================

func (m *Memory) SaveLeavePeriod(_ context.Context, l planning.LeavePeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leave[l.ID]; !ok {
		m.leaveOrder = append(m.leaveOrder, l.ID)
	}
	m.leave[l.ID] = l
	return nil
}

func (m *Memory) GetLeavePeriod(_ context.Context, id planning.LeaveID) (*planning.LeavePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.leave[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (m *Memory) LeavePeriodsByPerson(_ context.Context, personID planning.PersonID) ([]planning.LeavePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.LeavePeriod
	for _, id := range m.leaveOrder {
		if l, ok := m.leave[id]; ok && l.PersonID == personID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) LeavePeriodsOverlapping(_ context.Context, personID planning.PersonID, status planning.LeaveStatus, window planning.DateWindow) ([]planning.LeavePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []planning.LeavePeriod
	for _, id := range m.leaveOrder {
		l, ok := m.leave[id]
		if ok && l.PersonID == personID && l.Status == status && l.Window.Overlaps(window) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) DeleteLeavePeriod(_ context.Context, id planning.LeaveID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leave, id)
	return nil
}
