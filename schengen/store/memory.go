// Package store provides an in-memory TripStore for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	trips     map[engine.TripID]engine.Trip
	employees map[engine.EmployeeID]engine.Employee
	configs   map[engine.CompanyID]engine.RuleConfig
}

func NewMemory() *Memory {
	return &Memory{
		trips:     make(map[engine.TripID]engine.Trip),
		employees: make(map[engine.EmployeeID]engine.Employee),
		configs:   make(map[engine.CompanyID]engine.RuleConfig),
	}
}

// ListTrips returns all retained trips for the employee, ghosted included,
// ordered by entry date.
func (m *Memory) ListTrips(_ context.Context, employeeID engine.EmployeeID) ([]engine.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var trips []engine.Trip
	for _, t := range m.trips {
		if t.EmployeeID == employeeID {
			trips = append(trips, t)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].Entry.Before(trips[j].Entry) })
	return trips, nil
}

func (m *Memory) GetTrip(_ context.Context, id engine.TripID) (*engine.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trips[id]
	if !ok {
		return nil, engine.ErrTripNotFound
	}
	return &t, nil
}

func (m *Memory) CreateTrip(_ context.Context, t engine.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[t.ID] = t
	return nil
}

func (m *Memory) UpdateTrip(_ context.Context, t engine.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trips[t.ID]; !ok {
		return engine.ErrTripNotFound
	}
	m.trips[t.ID] = t
	return nil
}

func (m *Memory) DeleteTrip(_ context.Context, id engine.TripID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trips[id]; !ok {
		return engine.ErrTripNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *Memory) SaveEmployee(_ context.Context, emp engine.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id engine.EmployeeID) (*engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, engine.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	employees := make([]engine.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

// RuleConfig implements schengen.ConfigProvider. Nil result means not
// configured; callers fall back to defaults.
func (m *Memory) RuleConfig(_ context.Context, companyID engine.CompanyID) (*engine.RuleConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.configs[companyID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// SaveRuleConfig validates and stores a company's thresholds.
func (m *Memory) SaveRuleConfig(_ context.Context, companyID engine.CompanyID, cfg engine.RuleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[companyID] = cfg
	return nil
}
