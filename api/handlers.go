/*
handlers.go - HTTP API handlers for the compliance service

PURPOSE:
  Exposes the 90/180 compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the service layer.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List all employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee details

  Trips:
    GET    /api/employees/{id}/trips         List trips (ghosted included)
    POST   /api/employees/{id}/trips         Create trip (validated write)
    POST   /api/employees/{id}/trips/check   Synchronous overlap pre-check
    PUT    /api/trips/{id}                   Update trip
    DELETE /api/trips/{id}                   Delete trip

  Compliance:
    GET    /api/employees/{id}/window        Window at a reference date
    GET    /api/employees/{id}/timeline      Windows across a date range
    POST   /api/employees/{id}/forecast      Project a planned trip
    GET    /api/dashboard                    All employees, parallel compute
    GET    /api/reports/compliance           Report export (json/csv)

  Config:
    GET    /api/config/{companyID}           Current thresholds (or defaults)
    PUT    /api/config/{companyID}           Store thresholds (validated)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, invalid config
  - 404: Employee or trip not found
  - 409: Overlap conflict (includes the conflicting trip)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/metrics"
	"github.com/warp/schengen-engine/report"
	"github.com/warp/schengen-engine/schengen"
	"github.com/warp/schengen-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Svc     *schengen.Service
	Metrics *metrics.Metrics

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store and metrics.
func NewHandler(store *sqlite.Store, m *metrics.Metrics) *Handler {
	return &Handler{
		Store:   store,
		Svc:     schengen.NewService(store, store),
		Metrics: m,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &engine.InputError{Field: "body", Reason: "invalid JSON"})
		return
	}
	if req.Name == "" || req.Nationality == "" {
		writeError(w, &engine.InputError{Field: "body", Reason: "name and nationality are required"})
		return
	}
	// Same discipline as the trip write path: IDs may be client-supplied,
	// otherwise one is generated.
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	emp := engine.Employee{
		ID:          engine.EmployeeID(req.ID),
		CompanyID:   engine.CompanyID(req.CompanyID),
		Name:        req.Name,
		Email:       req.Email,
		Nationality: req.Nationality,
		Category:    engine.NationalityCategory(req.Category),
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.Store.GetEmployee(r.Context(), emp.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), engine.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// =============================================================================
// TRIP HANDLERS
// =============================================================================

func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Store.ListTrips(r.Context(), engine.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]TripDTO, len(trips))
	for i, t := range trips {
		dtos[i] = toTripDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	trip, err := h.decodeTrip(r, employeeID)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.Svc.CreateTrip(r.Context(), trip)
	if err != nil {
		h.countConflict(err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripDTO(created))
}

func (h *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID := engine.TripID(chi.URLParam(r, "id"))

	trip, err := h.decodeTrip(r, "")
	if err != nil {
		writeError(w, err)
		return
	}
	trip.ID = tripID

	updated, err := h.Svc.UpdateTrip(r.Context(), trip)
	if err != nil {
		h.countConflict(err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(updated))
}

func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteTrip(r.Context(), engine.TripID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckOverlap is the synchronous pre-submission check used by trip-editing
// UIs. The authoritative check re-runs inside the write path regardless.
func (h *Handler) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	var req CheckOverlapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &engine.InputError{Field: "body", Reason: "invalid JSON"})
		return
	}
	candidate, err := parseInterval(req.EntryDate, req.ExitDate)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Svc.CheckOverlap(r.Context(), employeeID, candidate, engine.TripID(req.ExcludeTripID))
	if err != nil {
		writeError(w, err)
		return
	}

	dto := OverlapResultDTO{HasOverlap: result.HasOverlap}
	if result.ConflictingTrip != nil {
		conflicting := toTripDTO(*result.ConflictingTrip)
		dto.ConflictingTrip = &conflicting
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// COMPLIANCE HANDLERS
// =============================================================================

func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	ref, err := queryDate(r, "date", engine.Today())
	if err != nil {
		writeError(w, err)
		return
	}

	window, err := h.Svc.ComputeWindow(r.Context(), employeeID, ref)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countWindow(window)
	writeJSON(w, http.StatusOK, toWindowDTO(window))
}

func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	from, err := queryDate(r, "from", engine.Date{})
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := queryDate(r, "to", engine.Date{})
	if err != nil {
		writeError(w, err)
		return
	}
	if from.IsZero() || to.IsZero() {
		writeError(w, &engine.InputError{Field: "date_range", Reason: "from and to are required"})
		return
	}

	timeline, err := h.Svc.ComputeTimeline(r.Context(), employeeID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]WindowDTO, len(timeline))
	for i, window := range timeline {
		dtos[i] = toWindowDTO(window)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	var req ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &engine.InputError{Field: "body", Reason: "invalid JSON"})
		return
	}
	candidate, err := parseInterval(req.EntryDate, req.ExitDate)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.Svc.Forecast(r.Context(), employeeID, engine.Trip{
		EmployeeID: employeeID,
		Country:    req.Country,
		Entry:      candidate.Entry,
		Exit:       candidate.Exit,
	})
	if err != nil {
		h.countConflict(err)
		writeError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.ForecastsRun.Inc()
	}

	writeJSON(w, http.StatusOK, ForecastDTO{
		WorstCaseDaysUsed: result.WorstCaseDaysUsed,
		WorstCaseDate:     result.WorstCaseDate.String(),
		Breach:            result.Breach,
		Warning:           result.Warning,
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ref, err := queryDate(r, "date", engine.Today())
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := h.Svc.ComputeAll(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, res := range results {
		h.countWindow(res.Window)
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(results))
}

func (h *Handler) GetComplianceReport(w http.ResponseWriter, r *http.Request) {
	ref, err := queryDate(r, "date", engine.Today())
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := h.Svc.ComputeAll(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	rep := report.Build(ref, results)

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=compliance-%s.csv", ref))
		if err := rep.WriteCSV(w); err != nil {
			writeError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeTrip(r *http.Request, employeeID engine.EmployeeID) (engine.Trip, error) {
	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return engine.Trip{}, &engine.InputError{Field: "body", Reason: "invalid JSON"}
	}
	candidate, err := parseInterval(req.EntryDate, req.ExitDate)
	if err != nil {
		return engine.Trip{}, err
	}
	return engine.Trip{
		EmployeeID: employeeID,
		Country:    req.Country,
		Entry:      candidate.Entry,
		Exit:       candidate.Exit,
		Purpose:    req.Purpose,
		IsPrivate:  req.IsPrivate,
		Ghosted:    req.Ghosted,
	}, nil
}

func (h *Handler) countWindow(window engine.ComplianceWindow) {
	if h.Metrics == nil {
		return
	}
	h.Metrics.WindowsComputed.Inc()
	if window.Tier == engine.TierBreach {
		h.Metrics.BreachesObserved.Inc()
	}
}

func (h *Handler) countConflict(err error) {
	if h.Metrics != nil && engine.IsConflict(err) {
		h.Metrics.ConflictsDetected.Inc()
	}
}

func parseInterval(entry, exit string) (engine.Interval, error) {
	entryDate, err := engine.ParseDate(entry)
	if err != nil {
		return engine.Interval{}, &engine.InputError{Field: "entry_date", Reason: "must be YYYY-MM-DD"}
	}
	exitDate, err := engine.ParseDate(exit)
	if err != nil {
		return engine.Interval{}, &engine.InputError{Field: "exit_date", Reason: "must be YYYY-MM-DD"}
	}
	return engine.Interval{Entry: entryDate, Exit: exitDate}, nil
}

func queryDate(r *http.Request, param string, fallback engine.Date) (engine.Date, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return fallback, nil
	}
	d, err := engine.ParseDate(raw)
	if err != nil {
		return engine.Date{}, &engine.InputError{Field: param, Reason: "must be YYYY-MM-DD"}
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	dto := ErrorDTO{Error: err.Error()}
	status := http.StatusInternalServerError

	var conflict *engine.ConflictError
	switch {
	case errors.As(err, &conflict):
		status = http.StatusConflict
		conflicting := toTripDTO(conflict.Conflicting)
		dto.ConflictingTrip = &conflicting
	case engine.IsClientError(err):
		status = http.StatusBadRequest
	case engine.IsNotFound(err):
		status = http.StatusNotFound
	}
	writeJSON(w, status, dto)
}
