/*
Package engine implements the Schengen 90/180-day compliance calculations.

PURPOSE:
  This package contains the day-counting core: overlap validation of trip
  intervals, the presence-day model, rolling-window evaluation, risk
  classification, and forecasting of planned trips. Everything here is a
  pure function of (trips, config, reference dates) over an immutable
  snapshot of one employee's travel history.

KEY CONCEPTS IN THIS FILE (types.go):
  - Trip: An inclusive entry/exit date interval in a Schengen country
  - Interval: A candidate date range not yet attached to a stored trip
  - ComplianceWindow: Computed usage of the trailing 180-day window
  - ForecastResult: Worst-case projection for a planned trip
  - Employee/Trip IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Purity: No I/O, no mutable shared state; persistence happens elsewhere
  2. Whole days: All arithmetic is on calendar days in one reference timezone
  3. Derived values are never stored: ComplianceWindow is recomputed on demand
  4. Ghosted trips are retained records that count for NOTHING

SEE ALSO:
  - overlap.go: Interval validation against stored trips
  - window.go: Rolling 180-day window evaluation
  - forecast.go: Planned-trip projection
  - config.go: Per-organization rule thresholds
*/
package engine

import "time"

// =============================================================================
// RULE CONSTANTS - The 90/180 rule itself is not configurable
// =============================================================================

const (
	// LegalCap is the maximum number of presence days allowed in any
	// rolling window. Fixed by regulation.
	LegalCap = 90

	// WindowDays is the length of the rolling window in calendar days.
	WindowDays = 180
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TripID string
type EmployeeID string
type CompanyID string

// =============================================================================
// TRIP - One stay in a Schengen country
// =============================================================================

// Trip is an inclusive [Entry, Exit] stay recorded for one employee.
// Both boundary days count as presence days.
//
// Ghosted trips are retained for audit/display but are excluded from
// day counting, overlap checks, and the presence-day set.
type Trip struct {
	ID         TripID
	EmployeeID EmployeeID
	Country    string // ISO 3166-1 alpha-2, must be a Schengen country
	Entry      Date
	Exit       Date
	Purpose    string // Optional free-text reference label
	IsPrivate  bool   // Display-only flag; never affects counting
	Ghosted    bool   // Excluded from all counting and overlap logic

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the trip's inclusive date range.
func (t Trip) Range() DateRange { return DateRange{Start: t.Entry, End: t.Exit} }

// Days returns the trip's length in presence days (exit - entry + 1).
func (t Trip) Days() int { return t.Range().Length() }

// Interval is a candidate date range, e.g. a trip being created or edited
// that has not been persisted yet.
type Interval struct {
	Entry Date
	Exit  Date
}

func (iv Interval) Range() DateRange { return DateRange{Start: iv.Entry, End: iv.Exit} }

// Valid reports whether Entry <= Exit.
func (iv Interval) Valid() bool { return iv.Entry.BeforeOrEqual(iv.Exit) }

// =============================================================================
// EMPLOYEE - Only the attributes the engine needs
// =============================================================================

// NationalityCategory determines whether the 90/180 rule applies at all.
type NationalityCategory string

const (
	// CategorySubject: the employee's presence days count against the cap.
	CategorySubject NationalityCategory = "subject_to_rule"

	// CategoryExempt: EU/EEA/Swiss nationals and others with free movement;
	// the engine is bypassed entirely.
	CategoryExempt NationalityCategory = "exempt"
)

type Employee struct {
	ID          EmployeeID
	CompanyID   CompanyID
	Name        string
	Email       string
	Nationality string // ISO 3166-1 alpha-2
	Category    NationalityCategory

	CreatedAt time.Time
}

// =============================================================================
// RISK TIER
// =============================================================================

type RiskTier string

const (
	TierSafe    RiskTier = "safe"
	TierCaution RiskTier = "caution"
	TierBreach  RiskTier = "breach"
)

// =============================================================================
// COMPUTED RESULTS - Never persisted; stale the moment trips change
// =============================================================================

// OverlapResult is the outcome of checking a candidate interval against
// an employee's existing non-ghosted trips.
type OverlapResult struct {
	HasOverlap      bool
	ConflictingTrip *Trip // First conflicting trip, nil when HasOverlap is false
}

// ComplianceWindow reports usage of the trailing 180-day window ending on
// ReferenceDate. DaysRemaining can be negative, signaling an active breach.
type ComplianceWindow struct {
	EmployeeID    EmployeeID
	ReferenceDate Date
	DaysUsed      int // in [0, WindowDays]
	DaysRemaining int // LegalCap - DaysUsed; negative means breach
	Tier          RiskTier
	Exempt        bool // true when the employee bypasses the rule
}

// ForecastResult is the worst-case projection of adding a candidate trip
// to an existing travel history.
type ForecastResult struct {
	WorstCaseDaysUsed int
	WorstCaseDate     Date // Reference date at which the worst case occurs
	Breach            bool // worst case exceeds the legal cap
	Warning           bool // worst case exceeds the configured warning threshold
}
