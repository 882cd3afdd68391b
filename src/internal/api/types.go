package api

import (
	"github.com/maksimkurb/valvula-mgr/src/internal/policyclient"
	"github.com/maksimkurb/valvula-mgr/src/internal/postfix"
	"github.com/maksimkurb/valvula-mgr/src/internal/service"
	"github.com/maksimkurb/valvula-mgr/src/internal/valvulaconf"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ListenersResponse returns all declared listeners.
type ListenersResponse struct {
	Listeners []valvulaconf.ListenerInfo `json:"listeners"`
}

// AddListenerRequest declares a listener. Listener is "port" or "host:port".
type AddListenerRequest struct {
	Listener string `json:"listener" validate:"required"`
}

// AddListenerResponse returns the listener and whether it was created.
type AddListenerResponse struct {
	Listener valvulaconf.ListenerInfo `json:"listener"`
	Added    bool                     `json:"added"`
}

// ModulesResponse lists installed valvula modules.
type ModulesResponse struct {
	Modules []string `json:"modules"`
}

// AddModuleRequest runs a module on a listener.
type AddModuleRequest struct {
	Module string `json:"module" validate:"required,excludesall=/\\"`
}

// AddModuleResponse reports whether the module was newly declared.
type AddModuleResponse struct {
	Module   string `json:"module"`
	Listener string `json:"listener"`
	Added    bool   `json:"added"`
}

// SectionsResponse lists supported restriction lists.
type SectionsResponse struct {
	Sections []postfix.Section `json:"sections"`
}

// ConnectRequest adds a listener to a restriction list. Order defaults to "first".
type ConnectRequest struct {
	Listener string `json:"listener" validate:"required"`
	Order    string `json:"order" validate:"omitempty,oneof=first last"`
}

// ConnectResponse is the result of a connect.
type ConnectResponse = service.ConnectResult

// ConfigResponse is the effective main.cf configuration.
type ConfigResponse struct {
	Section string `json:"section,omitempty"`
	Config  string `json:"config"`
}

// PolicyCheckRequest sends one policy query to a listener.
type PolicyCheckRequest struct {
	Server       string `json:"server" validate:"required"`
	Sender       string `json:"sender" validate:"omitempty,email"`
	Recipient    string `json:"recipient" validate:"required,email"`
	SASLUsername string `json:"sasl_username"`
}

// PolicyCheckResponse is the answer of the policy server.
type PolicyCheckResponse struct {
	QueueID string              `json:"queue_id"`
	Reply   *policyclient.Reply `json:"reply"`
}

// HealthResponse is the daemon status.
type HealthResponse = service.HealthStatus
