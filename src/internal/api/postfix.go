package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/valvula-mgr/src/internal/postfix"
)

// GetSections lists the supported restriction lists.
// GET /api/v1/postfix/sections
func (h *Handler) GetSections(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, SectionsResponse{Sections: h.postfixService().Sections()})
}

// GetSection classifies one restriction list in main.cf.
// GET /api/v1/postfix/sections/{name}
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	info, err := h.postfixService().Section(chi.URLParam(r, "name"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, info)
}

// ConnectSection adds a listener's restriction to a restriction list.
// POST /api/v1/postfix/sections/{name}/connect
func (h *Handler) ConnectSection(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Order == "" {
		req.Order = string(postfix.OrderFirst)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.postfixService().Connect(chi.URLParam(r, "name"), req.Listener, req.Order)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if result.Outcome == postfix.OutcomeCreated.String() {
		writeCreated(w, result)
		return
	}
	writeJSONData(w, ConnectResponse(result))
}

// GetConfig returns the effective main.cf, optionally a single declaration.
// GET /api/v1/postfix/config?section=smtpd_data_restrictions
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")

	conf, err := h.postfixService().Normalized("", section)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, ConfigResponse{Section: section, Config: conf})
}
