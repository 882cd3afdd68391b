package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetListeners returns all declared listeners.
// GET /api/v1/listeners
func (h *Handler) GetListeners(w http.ResponseWriter, r *http.Request) {
	listeners, err := h.listenerService().ListListeners()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, ListenersResponse{Listeners: listeners})
}

// AddListener declares a listener. An existing listener is returned with 200.
// POST /api/v1/listeners
func (h *Handler) AddListener(w http.ResponseWriter, r *http.Request) {
	var req AddListenerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	info, added, err := h.listenerService().AddListener(r.Context(), req.Listener)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := AddListenerResponse{Listener: info, Added: added}
	if added {
		writeCreated(w, resp)
		return
	}
	writeJSONData(w, resp)
}

// GetModules lists installed valvula modules.
// GET /api/v1/modules
func (h *Handler) GetModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.listenerService().Modules().Available()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, ModulesResponse{Modules: modules})
}

// AddModule runs a module on the listener named in the path.
// POST /api/v1/listeners/{listener}/modules
func (h *Handler) AddModule(w http.ResponseWriter, r *http.Request) {
	listener, err := url.PathUnescape(chi.URLParam(r, "listener"))
	if err != nil {
		WriteInvalidRequest(w, "invalid listener in path")
		return
	}

	var req AddModuleRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	module := strings.TrimSuffix(req.Module, ".xml")

	h.mu.Lock()
	defer h.mu.Unlock()

	added, err := h.listenerService().AddModule(module, listener)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := AddModuleResponse{Module: module, Listener: listener, Added: added}
	if added {
		writeCreated(w, resp)
		return
	}
	writeJSONData(w, resp)
}
