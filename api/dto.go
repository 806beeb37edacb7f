/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES:
  All dates cross the wire as 2006-01-02 strings; parsing failures are
  client errors.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: RuleConfigJSON used for the config endpoints
*/
package api

import (
	"time"

	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/schengen"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Nationality   string `json:"nationality"`
	Category      string `json:"category"`
	SubjectToRule bool   `json:"subject_to_rule"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee. Category is
// optional; empty means "derive from nationality".
type CreateEmployeeRequest struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	Category    string `json:"category,omitempty"`
}

func toEmployeeDTO(emp engine.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:            string(emp.ID),
		CompanyID:     string(emp.CompanyID),
		Name:          emp.Name,
		Email:         emp.Email,
		Nationality:   emp.Nationality,
		Category:      string(emp.Category),
		SubjectToRule: engine.IsSubjectToRule(emp),
		CreatedAt:     formatTime(emp.CreatedAt),
	}
}

// =============================================================================
// TRIPS
// =============================================================================

// TripDTO represents a trip in API responses.
type TripDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Country    string `json:"country"`
	EntryDate  string `json:"entry_date"`
	ExitDate   string `json:"exit_date"`
	Days       int    `json:"days"`
	Purpose    string `json:"purpose,omitempty"`
	IsPrivate  bool   `json:"is_private"`
	Ghosted    bool   `json:"ghosted"`
}

// TripRequest is the request body for creating or updating a trip.
type TripRequest struct {
	Country   string `json:"country"`
	EntryDate string `json:"entry_date"`
	ExitDate  string `json:"exit_date"`
	Purpose   string `json:"purpose"`
	IsPrivate bool   `json:"is_private"`
	Ghosted   bool   `json:"ghosted"`
}

// CheckOverlapRequest is the synchronous pre-submission overlap check.
type CheckOverlapRequest struct {
	EntryDate     string `json:"entry_date"`
	ExitDate      string `json:"exit_date"`
	ExcludeTripID string `json:"exclude_trip_id,omitempty"`
}

// OverlapResultDTO mirrors engine.OverlapResult.
type OverlapResultDTO struct {
	HasOverlap      bool     `json:"has_overlap"`
	ConflictingTrip *TripDTO `json:"conflicting_trip,omitempty"`
}

func toTripDTO(t engine.Trip) TripDTO {
	return TripDTO{
		ID:         string(t.ID),
		EmployeeID: string(t.EmployeeID),
		Country:    t.Country,
		EntryDate:  t.Entry.String(),
		ExitDate:   t.Exit.String(),
		Days:       t.Days(),
		Purpose:    t.Purpose,
		IsPrivate:  t.IsPrivate,
		Ghosted:    t.Ghosted,
	}
}

// =============================================================================
// WINDOWS, FORECASTS, DASHBOARD
// =============================================================================

// WindowDTO represents a computed compliance window. It is derived state:
// stale the moment trips change, recomputed on every request.
type WindowDTO struct {
	EmployeeID    string `json:"employee_id"`
	ReferenceDate string `json:"reference_date"`
	WindowStart   string `json:"window_start"`
	DaysUsed      int    `json:"days_used"`
	DaysRemaining int    `json:"days_remaining"`
	Tier          string `json:"tier"`
	Exempt        bool   `json:"exempt"`
}

// ForecastRequest carries the hypothetical trip to project.
type ForecastRequest struct {
	Country   string `json:"country"`
	EntryDate string `json:"entry_date"`
	ExitDate  string `json:"exit_date"`
}

// ForecastDTO mirrors engine.ForecastResult.
type ForecastDTO struct {
	WorstCaseDaysUsed int    `json:"worst_case_days_used"`
	WorstCaseDate     string `json:"worst_case_date"`
	Breach            bool   `json:"breach"`
	Warning           bool   `json:"warning"`
}

// DashboardRowDTO is one employee's standing on the company dashboard.
type DashboardRowDTO struct {
	Employee EmployeeDTO `json:"employee"`
	Window   WindowDTO   `json:"window"`
}

func toWindowDTO(w engine.ComplianceWindow) WindowDTO {
	return WindowDTO{
		EmployeeID:    string(w.EmployeeID),
		ReferenceDate: w.ReferenceDate.String(),
		WindowStart:   engine.Window(w.ReferenceDate).Start.String(),
		DaysUsed:      w.DaysUsed,
		DaysRemaining: w.DaysRemaining,
		Tier:          string(w.Tier),
		Exempt:        w.Exempt,
	}
}

func toDashboardDTO(results []schengen.EmployeeWindow) []DashboardRowDTO {
	rows := make([]DashboardRowDTO, len(results))
	for i, r := range results {
		rows[i] = DashboardRowDTO{
			Employee: toEmployeeDTO(r.Employee),
			Window:   toWindowDTO(r.Window),
		}
	}
	return rows
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorDTO is the uniform error envelope.
type ErrorDTO struct {
	Error           string   `json:"error"`
	ConflictingTrip *TripDTO `json:"conflicting_trip,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
