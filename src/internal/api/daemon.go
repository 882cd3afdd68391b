package api

import (
	"net/http"

	"github.com/maksimkurb/valvula-mgr/src/internal/policyclient"
)

// GetHealth reports whether valvulad is started and answering. It never
// restarts the daemon.
// GET /api/v1/health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, HealthResponse(h.daemonService().Health(r.Context())))
}

// CheckPolicy sends a single policy query to a listener.
// POST /api/v1/policy/check
func (h *Handler) CheckPolicy(w http.ResponseWriter, r *http.Request) {
	var req PolicyCheckRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	queueID := policyclient.NewQueueID()
	reply, err := policyclient.New(req.Server).Check(r.Context(), policyclient.Request{
		Sender:       req.Sender,
		Recipient:    req.Recipient,
		SASLUsername: req.SASLUsername,
		QueueID:      queueID,
	})
	if err != nil {
		WriteError(w, http.StatusBadGateway, NewAPIError(ErrCodeInternalError, err.Error()))
		return
	}

	writeJSONData(w, PolicyCheckResponse{QueueID: queueID, Reply: reply})
}
