/*
store.go - Persistence interfaces consumed by the compliance service

PURPOSE:
  Defines the narrow storage contracts the service needs. The engine never
  touches storage; it borrows an immutable snapshot of trips for one
  computation. Implementations: schengen/store (in-memory, tests/dev) and
  store/sqlite (production).

OWNERSHIP:
  Trip records are owned by the store. ListTrips returns ALL retained
  records including ghosted ones; the engine excludes ghosted trips from
  every computation itself.
*/
package schengen

import (
	"context"

	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// TripStore persists trips and employees.
//
// Write methods only persist; overlap validation happens in the service
// under the per-employee write lock BEFORE the store is called.
type TripStore interface {
	// ListTrips returns every retained trip for the employee, ghosted
	// included, ordered by entry date.
	ListTrips(ctx context.Context, employeeID engine.EmployeeID) ([]engine.Trip, error)
	GetTrip(ctx context.Context, id engine.TripID) (*engine.Trip, error)
	CreateTrip(ctx context.Context, t engine.Trip) error
	UpdateTrip(ctx context.Context, t engine.Trip) error
	DeleteTrip(ctx context.Context, id engine.TripID) error

	SaveEmployee(ctx context.Context, emp engine.Employee) error
	GetEmployee(ctx context.Context, id engine.EmployeeID) (*engine.Employee, error)
	ListEmployees(ctx context.Context) ([]engine.Employee, error)
}

// ConfigProvider supplies per-company rule configuration.
//
// A (nil, nil) result means "not configured"; the service falls back to
// engine.DefaultRuleConfig(). Provider errors are also treated as missing
// config: a computation is never failed for configuration problems.
type ConfigProvider interface {
	RuleConfig(ctx context.Context, companyID engine.CompanyID) (*engine.RuleConfig, error)
}

// ConfigStore is a ConfigProvider that also accepts writes. Validation
// happens at write time (engine.RuleConfig.Validate), never per query.
type ConfigStore interface {
	ConfigProvider
	SaveRuleConfig(ctx context.Context, companyID engine.CompanyID, cfg engine.RuleConfig) error
}
