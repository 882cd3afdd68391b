package api

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/domain"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/service"
)

// maxBodySize bounds request bodies.
const maxBodySize = 64 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler manages all API endpoints and dependencies.
type Handler struct {
	cfg  *config.Config
	deps *domain.AppDependencies

	// mu serializes edits of valvula.conf and main.cf.
	mu sync.Mutex
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, deps *domain.AppDependencies) *Handler {
	return &Handler{cfg: cfg, deps: deps}
}

func (h *Handler) listenerService() *service.ListenerService {
	return service.NewListenerService(h.cfg, h.deps.AddressLister())
}

func (h *Handler) postfixService() *service.PostfixService {
	return service.NewPostfixService(h.cfg)
}

func (h *Handler) daemonService() *service.DaemonService {
	return service.NewDaemonService(h.cfg, h.deps.Executor())
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(DataResponse{Data: data}); err != nil {
		log.Warnf("Failed to encode response: %v", err)
	}
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeCreated writes a 201 Created response with data.
func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

// decodeRequest decodes and validates a JSON body into v. On failure the
// error response is already written and false is returned.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return false
	}

	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !goerrors.As(err, &fieldErrs) {
			WriteInvalidRequest(w, err.Error())
			return false
		}
		details := make(map[string]interface{}, len(fieldErrs))
		for _, e := range fieldErrs {
			details[e.Field()] = validationMessage(e)
		}
		WriteValidationError(w, "request validation failed", details)
		return false
	}
	return true
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return "must be one of: " + e.Param()
	case "email":
		return "must be an e-mail address"
	case "excludesall":
		return "must not contain path separators"
	default:
		return "validation failed: " + e.Tag()
	}
}
