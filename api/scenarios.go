/*
scenarios.go - Demo travel histories

PURPOSE:
  Loads self-contained demo datasets so the dashboard and forecast views
  have something meaningful to show without manual data entry. Loading a
  scenario RESETS the database; dev/demo use only.

SEE ALSO:
  - handlers.go: shares the Handler context
  - store/sqlite: Reset and persistence
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/warp/schengen-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "frequent-consultant",
		Name:        "Frequent Consultant",
		Description: "Monthly client visits staying comfortably in the safe tier",
	},
	{
		ID:          "near-limit",
		Name:        "Near The Limit",
		Description: "Long assignments approaching the 90-day cap; forecasts show warnings",
	},
	{
		ID:          "over-limit",
		Name:        "Over The Limit",
		Description: "An active breach plus a ghosted cancelled trip",
	},
	{
		ID:          "mixed-team",
		Name:        "Mixed Team",
		Description: "Subject and exempt employees side by side on one dashboard",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads the selected scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &engine.InputError{Field: "body", Reason: "invalid JSON"})
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "frequent-consultant":
		err = h.loadFrequentConsultant(ctx)
	case "near-limit":
		err = h.loadNearLimit(ctx)
	case "over-limit":
		err = h.loadOverLimit(ctx)
	case "mixed-team":
		err = h.loadMixedTeam(ctx)
	default:
		writeError(w, &engine.InputError{Field: "scenario_id", Reason: fmt.Sprintf("unknown scenario %q", req.ScenarioID)})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) seedEmployee(ctx context.Context, id, name, nationality string) error {
	return h.Store.SaveEmployee(ctx, engine.Employee{
		ID:          engine.EmployeeID(id),
		CompanyID:   "demo",
		Name:        name,
		Email:       id + "@demo.example",
		Nationality: nationality,
	})
}

func (h *Handler) seedTrip(ctx context.Context, employeeID, country string, entry, exit engine.Date, ghosted bool) error {
	now := time.Now().UTC()
	return h.Store.CreateTrip(ctx, engine.Trip{
		ID:         engine.TripID(uuid.NewString()),
		EmployeeID: engine.EmployeeID(employeeID),
		Country:    country,
		Entry:      entry,
		Exit:       exit,
		Purpose:    "demo",
		Ghosted:    ghosted,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// loadFrequentConsultant: one working week per month for the last half year.
func (h *Handler) loadFrequentConsultant(ctx context.Context) error {
	if err := h.seedEmployee(ctx, "emp-consultant", "Priya Nair", "IN"); err != nil {
		return err
	}
	start := engine.Today().AddDays(-170)
	for i := 0; i < 6; i++ {
		entry := start.AddDays(i * 30)
		if err := h.seedTrip(ctx, "emp-consultant", "DE", entry, entry.AddDays(4), false); err != nil {
			return err
		}
	}
	return nil
}

// loadNearLimit: two long assignments totalling 80 days in the window.
func (h *Handler) loadNearLimit(ctx context.Context) error {
	if err := h.seedEmployee(ctx, "emp-nearlimit", "Omar Haddad", "EG"); err != nil {
		return err
	}
	today := engine.Today()
	if err := h.seedTrip(ctx, "emp-nearlimit", "FR", today.AddDays(-120), today.AddDays(-71), false); err != nil {
		return err
	}
	return h.seedTrip(ctx, "emp-nearlimit", "NL", today.AddDays(-40), today.AddDays(-11), false)
}

// loadOverLimit: a 100-day continuous stay, plus a cancelled follow-up trip
// kept as a ghosted record.
func (h *Handler) loadOverLimit(ctx context.Context) error {
	if err := h.seedEmployee(ctx, "emp-breach", "Lena Kovacs", "BR"); err != nil {
		return err
	}
	today := engine.Today()
	if err := h.seedTrip(ctx, "emp-breach", "ES", today.AddDays(-100), today.AddDays(-1), false); err != nil {
		return err
	}
	return h.seedTrip(ctx, "emp-breach", "ES", today.AddDays(10), today.AddDays(20), true)
}

// loadMixedTeam: a subject employee next to an exempt colleague with the
// same travel pattern.
func (h *Handler) loadMixedTeam(ctx context.Context) error {
	if err := h.seedEmployee(ctx, "emp-subject", "Mei Chen", "CN"); err != nil {
		return err
	}
	if err := h.seedEmployee(ctx, "emp-exempt", "Jonas Weber", "DE"); err != nil {
		return err
	}
	today := engine.Today()
	for _, id := range []string{"emp-subject", "emp-exempt"} {
		if err := h.seedTrip(ctx, id, "IT", today.AddDays(-60), today.AddDays(-31), false); err != nil {
			return err
		}
	}
	return nil
}
