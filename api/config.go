/*
config.go - Rule-configuration endpoints

Reads always answer: a company with no stored config gets the built-in
defaults. Writes are strict: the threshold invariants are validated here,
at the point configuration is accepted for storage.
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/schengen-engine/engine"
	"github.com/warp/schengen-engine/factory"
)

func (h *Handler) GetRuleConfig(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "companyID"))

	cfg, err := h.Store.RuleConfig(r.Context(), companyID)
	if err != nil || cfg == nil {
		defaults := engine.DefaultRuleConfig()
		writeJSON(w, http.StatusOK, factory.ToJSON(defaults))
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(*cfg))
}

func (h *Handler) PutRuleConfig(w http.ResponseWriter, r *http.Request) {
	companyID := engine.CompanyID(chi.URLParam(r, "companyID"))

	var doc factory.RuleConfigJSON
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, &engine.InputError{Field: "body", Reason: "invalid JSON"})
		return
	}
	cfg, err := factory.FromJSON(doc)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Store.SaveRuleConfig(r.Context(), companyID, cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, factory.ToJSON(cfg))
}
