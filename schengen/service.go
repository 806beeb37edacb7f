/*
Package schengen exposes the 90/180 compliance engine to collaborators.

PURPOSE:
  The service layer between storage and the pure engine. It loads trip
  snapshots, resolves per-company configuration (with default fallback),
  applies the exempt-nationality bypass, and serializes trip writes per
  employee so the check-then-write sequence of the Interval Validator
  stays correct under concurrency.

WRITE DISCIPLINE:
  Two concurrent inserts for the same employee could each pass the overlap
  check independently and together violate the no-overlap invariant. Every
  mutation therefore runs under a per-employee mutex: validate against the
  freshly loaded snapshot, then persist, all inside the lock.

READ PATH:
  Reads take no lock; they compute over whatever snapshot ListTrips
  returns. Results are value objects that are stale the moment trips
  change, and are recomputed rather than patched.

SEE ALSO:
  - engine: the pure day-counting core
  - store/sqlite: production persistence
  - report: per-employee result assembly for export
*/
package schengen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service wires storage and configuration to the pure engine.
type Service struct {
	store  TripStore
	config ConfigProvider

	// One mutex per employee, created on first write.
	locks sync.Map // engine.EmployeeID -> *sync.Mutex
}

// NewService creates a compliance service. config may be nil; defaults are
// used for every company in that case.
func NewService(store TripStore, config ConfigProvider) *Service {
	return &Service{store: store, config: config}
}

func (s *Service) lockFor(id engine.EmployeeID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ruleConfigFor resolves the company's config, falling back to defaults.
// Missing or erroring configuration never fails a computation.
func (s *Service) ruleConfigFor(ctx context.Context, companyID engine.CompanyID) engine.RuleConfig {
	if s.config == nil {
		return engine.DefaultRuleConfig()
	}
	cfg, err := s.config.RuleConfig(ctx, companyID)
	if err != nil || cfg == nil {
		return engine.DefaultRuleConfig()
	}
	return cfg.Normalize()
}

// =============================================================================
// READ / COMPUTE OPERATIONS
// =============================================================================

// ComputeWindow evaluates the trailing 180-day window ending on ref for
// one employee. Exempt employees bypass the engine and report zero usage.
func (s *Service) ComputeWindow(ctx context.Context, employeeID engine.EmployeeID, ref engine.Date) (engine.ComplianceWindow, error) {
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return engine.ComplianceWindow{}, err
	}
	if !engine.IsSubjectToRule(*emp) {
		return engine.ComplianceWindow{
			EmployeeID:    employeeID,
			ReferenceDate: ref,
			DaysRemaining: engine.LegalCap,
			Tier:          engine.TierSafe,
			Exempt:        true,
		}, nil
	}

	trips, err := s.store.ListTrips(ctx, employeeID)
	if err != nil {
		return engine.ComplianceWindow{}, err
	}
	window := engine.ComputeWindow(trips, ref, s.ruleConfigFor(ctx, emp.CompanyID))
	window.EmployeeID = employeeID
	return window, nil
}

// ComputeTimeline evaluates every reference date in [from, to] using the
// incremental scan. Used for calendar rendering of daily risk.
func (s *Service) ComputeTimeline(ctx context.Context, employeeID engine.EmployeeID, from, to engine.Date) ([]engine.ComplianceWindow, error) {
	if to.Before(from) {
		return nil, &engine.InputError{Field: "date_range", Reason: "from is after to"}
	}
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !engine.IsSubjectToRule(*emp) {
		windows := make([]engine.ComplianceWindow, 0, engine.DaysBetween(from, to)+1)
		for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
			windows = append(windows, engine.ComplianceWindow{
				EmployeeID:    employeeID,
				ReferenceDate: d,
				DaysRemaining: engine.LegalCap,
				Tier:          engine.TierSafe,
				Exempt:        true,
			})
		}
		return windows, nil
	}

	trips, err := s.store.ListTrips(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	windows := engine.ComputeTimeline(trips, engine.NewDateRange(from, to), s.ruleConfigFor(ctx, emp.CompanyID))
	for i := range windows {
		windows[i].EmployeeID = employeeID
	}
	return windows, nil
}

// CheckOverlap runs the Interval Validator against the employee's stored
// trips without taking the write lock. Used by trip-editing UIs for a
// synchronous pre-check; the authoritative check re-runs inside the write.
func (s *Service) CheckOverlap(ctx context.Context, employeeID engine.EmployeeID, candidate engine.Interval, excludeTripID engine.TripID) (engine.OverlapResult, error) {
	if err := engine.ValidateInterval(candidate); err != nil {
		return engine.OverlapResult{}, err
	}
	trips, err := s.store.ListTrips(ctx, employeeID)
	if err != nil {
		return engine.OverlapResult{}, err
	}
	return engine.CheckOverlap(candidate, trips, excludeTripID), nil
}

// Forecast projects a hypothetical future trip for the employee. Nothing
// is persisted; committing the trip goes through CreateTrip.
func (s *Service) Forecast(ctx context.Context, employeeID engine.EmployeeID, candidate engine.Trip) (engine.ForecastResult, error) {
	emp, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return engine.ForecastResult{}, err
	}
	if !engine.IsSubjectToRule(*emp) {
		// Nothing to forecast; an exempt employee cannot breach.
		return engine.ForecastResult{WorstCaseDate: candidate.Exit}, nil
	}

	trips, err := s.store.ListTrips(ctx, employeeID)
	if err != nil {
		return engine.ForecastResult{}, err
	}
	candidate.EmployeeID = employeeID
	return engine.Forecast(trips, candidate, s.ruleConfigFor(ctx, emp.CompanyID))
}

// =============================================================================
// BATCH COMPUTATION - dashboard across all employees
// =============================================================================

// EmployeeWindow pairs an employee with their computed window for
// dashboard and report consumption.
type EmployeeWindow struct {
	Employee engine.Employee
	Window   engine.ComplianceWindow
}

// ComputeAll evaluates the window ending on ref for every employee.
// Employees are independent of each other, so the computation fans out
// concurrently; results come back in the store's employee order.
func (s *Service) ComputeAll(ctx context.Context, ref engine.Date) ([]EmployeeWindow, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]EmployeeWindow, len(employees))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			window, err := s.ComputeWindow(ctx, emp.ID, ref)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			results[i] = EmployeeWindow{Employee: emp, Window: window}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// =============================================================================
// TRIP WRITE PATH - validator + per-employee serialization
// =============================================================================

// CreateTrip validates and persists a new trip. The overlap check and the
// write happen under the employee's write lock.
func (s *Service) CreateTrip(ctx context.Context, t engine.Trip) (engine.Trip, error) {
	if t.EmployeeID == "" {
		return engine.Trip{}, &engine.InputError{Field: "employee_id", Reason: "required"}
	}
	if t.ID == "" {
		t.ID = engine.TripID(uuid.NewString())
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	mu := s.lockFor(t.EmployeeID)
	mu.Lock()
	defer mu.Unlock()

	trips, err := s.store.ListTrips(ctx, t.EmployeeID)
	if err != nil {
		return engine.Trip{}, err
	}
	if err := s.validateWrite(t, trips, ""); err != nil {
		return engine.Trip{}, err
	}
	if err := s.store.CreateTrip(ctx, t); err != nil {
		return engine.Trip{}, err
	}
	return t, nil
}

// UpdateTrip validates and persists an edit. The trip's own stored state
// is excluded from the overlap check.
func (s *Service) UpdateTrip(ctx context.Context, t engine.Trip) (engine.Trip, error) {
	existing, err := s.store.GetTrip(ctx, t.ID)
	if err != nil {
		return engine.Trip{}, err
	}
	t.EmployeeID = existing.EmployeeID
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now().UTC()

	mu := s.lockFor(t.EmployeeID)
	mu.Lock()
	defer mu.Unlock()

	trips, err := s.store.ListTrips(ctx, t.EmployeeID)
	if err != nil {
		return engine.Trip{}, err
	}
	if err := s.validateWrite(t, trips, t.ID); err != nil {
		return engine.Trip{}, err
	}
	if err := s.store.UpdateTrip(ctx, t); err != nil {
		return engine.Trip{}, err
	}
	return t, nil
}

// DeleteTrip removes a trip record entirely. Ghosting (UpdateTrip with
// Ghosted=true) is usually preferable, since it retains the record.
func (s *Service) DeleteTrip(ctx context.Context, id engine.TripID) error {
	existing, err := s.store.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	mu := s.lockFor(existing.EmployeeID)
	mu.Lock()
	defer mu.Unlock()
	return s.store.DeleteTrip(ctx, id)
}

// validateWrite applies the full write-path validation. Ghosted trips are
// exempt from the overlap check: they count for nothing, so they may
// coexist with anything.
func (s *Service) validateWrite(t engine.Trip, existing []engine.Trip, exclude engine.TripID) error {
	if t.Ghosted {
		return engine.ValidateTrip(t)
	}
	return engine.CheckTripWrite(t, existing, exclude)
}
