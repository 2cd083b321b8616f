/*
Package sqlite provides a SQLite-backed implementation of planning.Store.

PURPOSE:
  Production persistence for the resource-planning engine. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  role_types:    Skill/role categories
  people:        Roster members
  projects:      Project windows
  requirements:  Manual and auto-generated resource requirements
  allocations:   People staffed on projects
  leave_periods: Time-off windows with approval status

NULL REFERENCES:
  Optional references (an orphaned allocation's requirement_id, a manual
  requirement's source_allocation_id) are stored as empty strings, which
  keeps scanning simple and matches the engine's empty-means-null
  convention.

IDEMPOTENCY:
  A partial unique index enforces at most one partial_gap requirement per
  source allocation; a violation surfaces as ErrDuplicatePartialGap so
  concurrent generation runs converge on the same row.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/planning.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - planning/store.go: Interface definition
  - planning/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/planning"
)

// Store implements planning.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ planning.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS role_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role_type_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requirements (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		role_type_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		required_count TEXT NOT NULL,
		auto_generated_type TEXT NOT NULL DEFAULT '',
		source_allocation_id TEXT NOT NULL DEFAULT '',
		parent_requirement_id TEXT NOT NULL DEFAULT '',
		ignored INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requirements_project
		ON requirements(project_id);
	CREATE INDEX IF NOT EXISTS idx_requirements_source_allocation
		ON requirements(source_allocation_id)
		WHERE source_allocation_id != '';
	CREATE INDEX IF NOT EXISTS idx_requirements_parent
		ON requirements(parent_requirement_id)
		WHERE parent_requirement_id != '';

	-- At most one partial_gap requirement per source allocation.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_requirements_unique_partial_gap
		ON requirements(source_allocation_id)
		WHERE auto_generated_type = 'partial_gap';

	CREATE TABLE IF NOT EXISTS allocations (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		person_id TEXT NOT NULL,
		role_type_id TEXT NOT NULL,
		requirement_id TEXT NOT NULL DEFAULT '',
		percent TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_allocations_project
		ON allocations(project_id);
	CREATE INDEX IF NOT EXISTS idx_allocations_person
		ON allocations(person_id);
	CREATE INDEX IF NOT EXISTS idx_allocations_requirement
		ON allocations(requirement_id)
		WHERE requirement_id != '';

	CREATE TABLE IF NOT EXISTS leave_periods (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_person_status
		ON leave_periods(person_id, status);
	CREATE INDEX IF NOT EXISTS idx_leave_dates
		ON leave_periods(start_date, end_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROLE TYPES
// =============================================================================

func (s *Store) SaveRoleType(ctx context.Context, rt planning.RoleType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO role_types (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		rt.ID, rt.Name, createdAt(rt.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save role type: %w", err)
	}
	return nil
}

func (s *Store) GetRoleType(ctx context.Context, id planning.RoleTypeID) (*planning.RoleType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM role_types WHERE id = ?`, id)

	var rt planning.RoleType
	var created string
	if err := row.Scan(&rt.ID, &rt.Name, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role type: %w", err)
	}
	rt.CreatedAt = parseTime(created)
	return &rt, nil
}

func (s *Store) ListRoleTypes(ctx context.Context) ([]planning.RoleType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM role_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list role types: %w", err)
	}
	defer rows.Close()

	var out []planning.RoleType
	for rows.Next() {
		var rt planning.RoleType
		var created string
		if err := rows.Scan(&rt.ID, &rt.Name, &created); err != nil {
			return nil, err
		}
		rt.CreatedAt = parseTime(created)
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (s *Store) DeleteRoleType(ctx context.Context, id planning.RoleTypeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM role_types WHERE id = ?`, id)
	return err
}

// =============================================================================
// PEOPLE
// =============================================================================

func (s *Store) SavePerson(ctx context.Context, p planning.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (id, name, role_type_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, role_type_id = excluded.role_type_id`,
		p.ID, p.Name, p.RoleTypeID, createdAt(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

func (s *Store) GetPerson(ctx context.Context, id planning.PersonID) (*planning.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, role_type_id, created_at FROM people WHERE id = ?`, id)

	var p planning.Person
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.RoleTypeID, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	p.CreatedAt = parseTime(created)
	return &p, nil
}

func (s *Store) ListPeople(ctx context.Context) ([]planning.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, role_type_id, created_at FROM people ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var out []planning.Person
	for rows.Next() {
		var p planning.Person
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &p.RoleTypeID, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeletePerson(ctx context.Context, id planning.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
	return err
}

// =============================================================================
// PROJECTS
// =============================================================================

func (s *Store) SaveProject(ctx context.Context, p planning.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		p.ID, p.Name, p.Window.Start.String(), p.Window.End.String(), createdAt(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id planning.ProjectID) (*planning.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date, created_at FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]planning.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date, created_at FROM projects ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []planning.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) ProjectIDs(ctx context.Context) ([]planning.ProjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}
	defer rows.Close()

	var out []planning.ProjectID
	for rows.Next() {
		var id planning.ProjectID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id planning.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM requirements WHERE project_id = ?) +
		       (SELECT COUNT(*) FROM allocations WHERE project_id = ?)`,
		id, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count project dependents: %w", err)
	}
	if count > 0 {
		return planning.ErrProjectHasDependents
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

// =============================================================================
// REQUIREMENTS
// =============================================================================

const requirementColumns = `id, project_id, role_type_id, start_date, end_date,
	required_count, auto_generated_type, source_allocation_id,
	parent_requirement_id, ignored, notes, created_at`

func (s *Store) SaveRequirement(ctx context.Context, r planning.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requirements
		(id, project_id, role_type_id, start_date, end_date, required_count,
		 auto_generated_type, source_allocation_id, parent_requirement_id,
		 ignored, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			role_type_id = excluded.role_type_id,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			required_count = excluded.required_count,
			ignored = excluded.ignored,
			notes = excluded.notes`,
		r.ID, r.ProjectID, r.RoleTypeID,
		r.Window.Start.String(), r.Window.End.String(),
		r.RequiredCount.String(),
		string(r.AutoGenType), r.SourceAllocationID, r.ParentRequirementID,
		boolToInt(r.Ignored), r.Notes, createdAt(r.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return planning.ErrDuplicatePartialGap
		}
		return fmt.Errorf("failed to save requirement: %w", err)
	}
	return nil
}

func (s *Store) GetRequirement(ctx context.Context, id planning.RequirementID) (*planning.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE id = ?`, id)

	r, err := scanRequirement(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}
	return r, nil
}

func (s *Store) RequirementsByProject(ctx context.Context, projectID planning.ProjectID) ([]planning.Requirement, error) {
	return s.queryRequirements(ctx,
		`SELECT `+requirementColumns+` FROM requirements
		 WHERE project_id = ? ORDER BY start_date, created_at`, projectID)
}

func (s *Store) RequirementsBySourceAllocation(ctx context.Context, allocationID planning.AllocationID) ([]planning.Requirement, error) {
	return s.queryRequirements(ctx,
		`SELECT `+requirementColumns+` FROM requirements
		 WHERE source_allocation_id = ? ORDER BY created_at`, allocationID)
}

func (s *Store) AutoGeneratedChildren(ctx context.Context, parentID planning.RequirementID) ([]planning.Requirement, error) {
	return s.queryRequirements(ctx,
		`SELECT `+requirementColumns+` FROM requirements
		 WHERE parent_requirement_id = ? AND auto_generated_type != ''
		 ORDER BY created_at`, parentID)
}

func (s *Store) DeleteRequirement(ctx context.Context, id planning.RequirementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM requirements WHERE id = ?`, id)
	return err
}

func (s *Store) queryRequirements(ctx context.Context, query string, args ...any) ([]planning.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requirements: %w", err)
	}
	defer rows.Close()

	var out []planning.Requirement
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

const allocationColumns = `id, project_id, person_id, role_type_id,
	requirement_id, percent, start_date, end_date, created_at`

func (s *Store) SaveAllocation(ctx context.Context, a planning.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allocations
		(id, project_id, person_id, role_type_id, requirement_id, percent,
		 start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			person_id = excluded.person_id,
			role_type_id = excluded.role_type_id,
			requirement_id = excluded.requirement_id,
			percent = excluded.percent,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		a.ID, a.ProjectID, a.PersonID, a.RoleTypeID, a.RequirementID,
		a.Percent.String(), a.Window.Start.String(), a.Window.End.String(),
		createdAt(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save allocation: %w", err)
	}
	return nil
}

func (s *Store) GetAllocation(ctx context.Context, id planning.AllocationID) (*planning.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+allocationColumns+` FROM allocations WHERE id = ?`, id)

	a, err := scanAllocation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	return a, nil
}

func (s *Store) AllocationsByPerson(ctx context.Context, personID planning.PersonID) ([]planning.Allocation, error) {
	return s.queryAllocations(ctx,
		`SELECT `+allocationColumns+` FROM allocations
		 WHERE person_id = ? ORDER BY start_date, created_at`, personID)
}

func (s *Store) AllocationsByRequirement(ctx context.Context, requirementID planning.RequirementID) ([]planning.Allocation, error) {
	return s.queryAllocations(ctx,
		`SELECT `+allocationColumns+` FROM allocations
		 WHERE requirement_id = ? ORDER BY start_date, created_at`, requirementID)
}

func (s *Store) AllocationsByProject(ctx context.Context, projectID planning.ProjectID) ([]planning.Allocation, error) {
	return s.queryAllocations(ctx,
		`SELECT `+allocationColumns+` FROM allocations
		 WHERE project_id = ? ORDER BY start_date, created_at`, projectID)
}

func (s *Store) DeleteAllocation(ctx context.Context, id planning.AllocationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM allocations WHERE id = ?`, id)
	return err
}

func (s *Store) OrphanAllocations(ctx context.Context, requirementID planning.RequirementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE allocations SET requirement_id = '' WHERE requirement_id = ?`, requirementID)
	return err
}

func (s *Store) queryAllocations(ctx context.Context, query string, args ...any) ([]planning.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var out []planning.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE PERIODS
// =============================================================================

func (s *Store) SaveLeavePeriod(ctx context.Context, l planning.LeavePeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_periods (id, person_id, start_date, end_date, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			notes = excluded.notes`,
		l.ID, l.PersonID, l.Window.Start.String(), l.Window.End.String(),
		string(l.Status), l.Notes, createdAt(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave period: %w", err)
	}
	return nil
}

func (s *Store) GetLeavePeriod(ctx context.Context, id planning.LeaveID) (*planning.LeavePeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, person_id, start_date, end_date, status, notes, created_at
		 FROM leave_periods WHERE id = ?`, id)

	l, err := scanLeavePeriod(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave period: %w", err)
	}
	return l, nil
}

func (s *Store) LeavePeriodsByPerson(ctx context.Context, personID planning.PersonID) ([]planning.LeavePeriod, error) {
	return s.queryLeavePeriods(ctx,
		`SELECT id, person_id, start_date, end_date, status, notes, created_at
		 FROM leave_periods WHERE person_id = ? ORDER BY start_date`, personID)
}

func (s *Store) LeavePeriodsOverlapping(ctx context.Context, personID planning.PersonID, status planning.LeaveStatus, window planning.DateWindow) ([]planning.LeavePeriod, error) {
	// Inclusive-bounds interval intersection on ISO dates.
	return s.queryLeavePeriods(ctx,
		`SELECT id, person_id, start_date, end_date, status, notes, created_at
		 FROM leave_periods
		 WHERE person_id = ? AND status = ? AND start_date <= ? AND end_date >= ?
		 ORDER BY start_date`,
		personID, string(status), window.End.String(), window.Start.String())
}

func (s *Store) DeleteLeavePeriod(ctx context.Context, id planning.LeaveID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM leave_periods WHERE id = ?`, id)
	return err
}

func (s *Store) queryLeavePeriods(ctx context.Context, query string, args ...any) ([]planning.LeavePeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave periods: %w", err)
	}
	defer rows.Close()

	var out []planning.LeavePeriod
	for rows.Next() {
		l, err := scanLeavePeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*planning.Project, error) {
	var p planning.Project
	var start, end, created string
	if err := row.Scan(&p.ID, &p.Name, &start, &end, &created); err != nil {
		return nil, err
	}
	p.Window = windowFrom(start, end)
	p.CreatedAt = parseTime(created)
	return &p, nil
}

func scanRequirement(row rowScanner) (*planning.Requirement, error) {
	var r planning.Requirement
	var start, end, count, autoGen, created string
	var ignored int
	err := row.Scan(
		&r.ID, &r.ProjectID, &r.RoleTypeID, &start, &end, &count,
		&autoGen, &r.SourceAllocationID, &r.ParentRequirementID,
		&ignored, &r.Notes, &created,
	)
	if err != nil {
		return nil, err
	}
	r.Window = windowFrom(start, end)
	r.RequiredCount = parseDecimal(count)
	r.AutoGenType = planning.AutoGenType(autoGen)
	r.Ignored = ignored != 0
	r.CreatedAt = parseTime(created)
	return &r, nil
}

func scanAllocation(row rowScanner) (*planning.Allocation, error) {
	var a planning.Allocation
	var percent, start, end, created string
	err := row.Scan(
		&a.ID, &a.ProjectID, &a.PersonID, &a.RoleTypeID,
		&a.RequirementID, &percent, &start, &end, &created,
	)
	if err != nil {
		return nil, err
	}
	a.Percent = parseDecimal(percent)
	a.Window = windowFrom(start, end)
	a.CreatedAt = parseTime(created)
	return &a, nil
}

func scanLeavePeriod(row rowScanner) (*planning.LeavePeriod, error) {
	var l planning.LeavePeriod
	var start, end, status, created string
	err := row.Scan(&l.ID, &l.PersonID, &start, &end, &status, &l.Notes, &created)
	if err != nil {
		return nil, err
	}
	l.Window = windowFrom(start, end)
	l.Status = planning.LeaveStatus(status)
	l.CreatedAt = parseTime(created)
	return &l, nil
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func windowFrom(start, end string) planning.DateWindow {
	s, _ := planning.ParseDate(start)
	e, _ := planning.ParseDate(end)
	return planning.DateWindow{Start: s, End: e}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func createdAt(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
