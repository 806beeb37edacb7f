/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements schengen.TripStore and schengen.ConfigStore using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  employees:     Employee records with nationality category
  trips:         Retained trip records (ghosted rows included)
  rule_configs:  One JSON threshold document per company

GHOSTED ROWS:
  Ghosted trips are data, not deletions: they stay in the trips table and
  are returned by ListTrips. Exclusion from counting is the engine's job.

WRITE DISCIPLINE:
  The store only persists; the no-overlap invariant is enforced by the
  service layer's validator under its per-employee lock. A partial unique
  index on (employee_id, entry_date) for non-ghosted rows catches the
  exact-duplicate case as a last line of defense.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := schengen.NewService(store, store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - schengen/store.go: Interface definitions
  - schengen/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/factory"
)

// Store implements the trip, employee and config storage interfaces.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema-less database. Pin the pool
	// to one connection so concurrent readers share the real one.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
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
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		nationality TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_company
		ON employees(company_id);

	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		country TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		exit_date TEXT NOT NULL,
		purpose TEXT,
		is_private INTEGER NOT NULL DEFAULT 0,
		ghosted INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (employee_id) REFERENCES employees(id)
	);

	CREATE INDEX IF NOT EXISTS idx_trips_employee_entry
		ON trips(employee_id, entry_date);

	-- Last line of defense: two non-ghosted trips can never share an
	-- entry date. Range overlap is the service validator's job.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_trip_entry
		ON trips(employee_id, entry_date) WHERE ghosted = 0;

	CREATE TABLE IF NOT EXISTS rule_configs (
		company_id TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRIPS
// =============================================================================

// ListTrips returns every retained trip for the employee, ghosted rows
// included, ordered by entry date.
func (s *Store) ListTrips(ctx context.Context, employeeID engine.EmployeeID) ([]engine.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, country, entry_date, exit_date,
		       purpose, is_private, ghosted, created_at, updated_at
		FROM trips
		WHERE employee_id = ?
		ORDER BY entry_date`, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []engine.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// GetTrip returns one trip by ID, engine.ErrTripNotFound when missing.
func (s *Store) GetTrip(ctx context.Context, id engine.TripID) (*engine.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, country, entry_date, exit_date,
		       purpose, is_private, ghosted, created_at, updated_at
		FROM trips WHERE id = ?`, string(id))

	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTrip inserts a new trip record.
func (s *Store) CreateTrip(ctx context.Context, t engine.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trips (id, employee_id, country, entry_date, exit_date,
		                   purpose, is_private, ghosted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID), string(t.EmployeeID), t.Country,
		t.Entry.String(), t.Exit.String(),
		t.Purpose, boolToInt(t.IsPrivate), boolToInt(t.Ghosted),
		t.CreatedAt.UTC().Format(time.RFC3339), t.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// UpdateTrip rewrites an existing trip record in place.
func (s *Store) UpdateTrip(ctx context.Context, t engine.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE trips
		SET country = ?, entry_date = ?, exit_date = ?,
		    purpose = ?, is_private = ?, ghosted = ?, updated_at = ?
		WHERE id = ?`,
		t.Country, t.Entry.String(), t.Exit.String(),
		t.Purpose, boolToInt(t.IsPrivate), boolToInt(t.Ghosted),
		t.UpdatedAt.UTC().Format(time.RFC3339), string(t.ID))
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrTripNotFound
	}
	return nil
}

// DeleteTrip removes a trip record permanently.
func (s *Store) DeleteTrip(ctx context.Context, id engine.TripID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return engine.ErrTripNotFound
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces an employee record. An empty category
// is derived from the nationality lookup.
func (s *Store) SaveEmployee(ctx context.Context, emp engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.Category == "" {
		emp.Category = engine.CategoryForNationality(emp.Nationality)
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees (id, company_id, name, email, nationality, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(emp.ID), string(emp.CompanyID), emp.Name, emp.Email,
		emp.Nationality, string(emp.Category),
		emp.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee returns one employee, engine.ErrEmployeeNotFound when missing.
func (s *Store) GetEmployee(ctx context.Context, id engine.EmployeeID) (*engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, email, nationality, category, created_at
		FROM employees WHERE id = ?`, string(id))

	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, email, nationality, category, created_at
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []engine.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// RULE CONFIGS
// =============================================================================

// RuleConfig implements schengen.ConfigProvider. A missing or unparsable
// row reads as (nil, nil): callers fall back to defaults rather than fail.
func (s *Store) RuleConfig(ctx context.Context, companyID engine.CompanyID) (*engine.RuleConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT config_json FROM rule_configs WHERE company_id = ?`,
		string(companyID)).Scan(&configJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule config: %w", err)
	}

	cfg, err := factory.ParseRuleConfig(configJSON)
	if err != nil {
		return nil, nil
	}
	return &cfg, nil
}

// SaveRuleConfig validates and upserts a company's thresholds. This is the
// point where the green > amber invariant is enforced.
func (s *Store) SaveRuleConfig(ctx context.Context, companyID engine.CompanyID, cfg engine.RuleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configJSON, err := factory.EncodeRuleConfig(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rule_configs (company_id, config_json, updated_at)
		VALUES (?, ?, ?)`,
		string(companyID), configJSON, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save rule config: %w", err)
	}
	return nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Used by demo scenario loading; dev only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"trips", "employees", "rule_configs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(r rowScanner) (engine.Trip, error) {
	var (
		t                    engine.Trip
		id, employeeID       string
		entryStr, exitStr    string
		isPrivate, ghosted   int
		createdAt, updatedAt string
	)
	err := r.Scan(&id, &employeeID, &t.Country, &entryStr, &exitStr,
		&t.Purpose, &isPrivate, &ghosted, &createdAt, &updatedAt)
	if err != nil {
		return engine.Trip{}, err
	}

	t.ID = engine.TripID(id)
	t.EmployeeID = engine.EmployeeID(employeeID)
	t.IsPrivate = isPrivate != 0
	t.Ghosted = ghosted != 0

	if t.Entry, err = engine.ParseDate(entryStr); err != nil {
		return engine.Trip{}, fmt.Errorf("corrupt entry_date for trip %s: %w", id, err)
	}
	if t.Exit, err = engine.ParseDate(exitStr); err != nil {
		return engine.Trip{}, fmt.Errorf("corrupt exit_date for trip %s: %w", id, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return engine.Trip{}, fmt.Errorf("corrupt created_at for trip %s: %w", id, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return engine.Trip{}, fmt.Errorf("corrupt updated_at for trip %s: %w", id, err)
	}
	return t, nil
}

func scanEmployee(r rowScanner) (engine.Employee, error) {
	var (
		emp           engine.Employee
		id, companyID string
		category      string
		createdAt     string
	)
	err := r.Scan(&id, &companyID, &emp.Name, &emp.Email, &emp.Nationality, &category, &createdAt)
	if err != nil {
		return engine.Employee{}, err
	}

	emp.ID = engine.EmployeeID(id)
	emp.CompanyID = engine.CompanyID(companyID)
	emp.Category = engine.NationalityCategory(category)
	if emp.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return engine.Employee{}, fmt.Errorf("corrupt created_at for employee %s: %w", id, err)
	}
	return emp, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
