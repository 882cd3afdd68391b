package api

import (
	"bufio"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maksimkurb/valvula-mgr/src/internal/valvulaconf"
)

func TestGetListeners(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listeners", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ListenersResponse
	decodeData(t, rec, &resp)
	want := []valvulaconf.ListenerInfo{{Host: "127.0.0.1", Port: "3579", Modules: []string{"mod-ticket"}}}
	if diff := cmp.Diff(want, resp.Listeners); diff != "" {
		t.Errorf("Listeners mismatch (-want +got):\n%s", diff)
	}
}

func TestAddListener(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/listeners", `{"listener":"10.0.0.5:3580"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AddListenerResponse
	decodeData(t, rec, &resp)
	if !resp.Added || resp.Listener.Host != "10.0.0.5" || resp.Listener.Port != "3580" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if !strings.Contains(readFile(t, env.cfg.Valvula.ConfigFile), `host="10.0.0.5" port="3580"`) {
		t.Error("Expected listener to be written to valvula.conf")
	}

	rec = env.do(t, http.MethodPost, "/api/v1/listeners", `{"listener":"3579"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for existing listener, got %d: %s", rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &resp)
	if resp.Added {
		t.Error("Expected added=false for existing listener")
	}
}

func TestAddListener_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   ErrorCode
	}{
		{"missing field", `{}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown field", `{"listener":"3580","extra":1}`, http.StatusBadRequest, ErrCodeInvalidRequest},
		{"bad port", `{"listener":"127.0.0.1:abc"}`, http.StatusBadRequest, "INVALID_PORT"},
		{"foreign host", `{"listener":"192.0.2.10:3580"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/listeners", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
		})
	}
}

func TestModules(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/modules", "")
	var modules ModulesResponse
	decodeData(t, rec, &modules)
	if diff := cmp.Diff([]string{"mod-mquota", "mod-ticket"}, modules.Modules); diff != "" {
		t.Errorf("Modules mismatch (-want +got):\n%s", diff)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/listeners/127.0.0.1:3579/modules", `{"module":"mod-mquota.xml"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AddModuleResponse
	decodeData(t, rec, &resp)
	if resp.Module != "mod-mquota" || !resp.Added {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if _, err := os.Lstat(filepath.Join(env.cfg.Valvula.BaseDir, "mods-enabled", "mod-mquota.xml")); err != nil {
		t.Errorf("Expected module to be enabled: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/listeners/127.0.0.1:4000/modules", `{"module":"mod-mquota"}`)
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != "LISTENER_NOT_FOUND" {
		t.Errorf("Expected LISTENER_NOT_FOUND, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/listeners/3579/modules", `{"module":"mod-missing"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for a missing module, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/listeners/3579/modules", `{"module":"../etc/passwd"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a path in module name, got %d", rec.Code)
	}
}

func TestSections(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/postfix/sections", "")
	var sections SectionsResponse
	decodeData(t, rec, &sections)
	if len(sections.Sections) == 0 {
		t.Fatal("Expected supported sections")
	}

	rec = env.do(t, http.MethodGet, "/api/v1/postfix/sections/smtpd_recipient_restrictions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info struct {
		Name           string `json:"name"`
		Classification string `json:"classification"`
		Value          string `json:"value"`
	}
	decodeData(t, rec, &info)
	if info.Classification != "single_line_decl" {
		t.Errorf("Expected single_line_decl, got %s", info.Classification)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/postfix/sections/smtpd_foo", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != "UNSUPPORTED_SECTION" {
		t.Errorf("Expected UNSUPPORTED_SECTION, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConnectSection(t *testing.T) {
	env := newTestEnv(t)
	path := "/api/v1/postfix/sections/smtpd_recipient_restrictions/connect"

	rec := env.do(t, http.MethodPost, path, `{"listener":"3579"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result ConnectResponse
	decodeData(t, rec, &result)
	if result.Outcome != "updated" || result.Token != "check_policy_service inet:127.0.0.1:3579" {
		t.Errorf("Unexpected result: %+v", result)
	}

	want := "smtpd_recipient_restrictions = check_policy_service inet:127.0.0.1:3579, permit_mynetworks, reject_unauth_destination\n"
	if got := readFile(t, env.cfg.Postfix.MainCf); !strings.Contains(got, want) {
		t.Errorf("main.cf not updated:\n%s", got)
	}

	rec = env.do(t, http.MethodPost, path, `{"listener":"3579","order":"last"}`)
	decodeData(t, rec, &result)
	if result.Outcome != "already_present" {
		t.Errorf("Expected already_present, got %s", result.Outcome)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/postfix/sections/smtpd_data_restrictions/connect", `{"listener":"3579"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201 for a created declaration, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConnectSection_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		section string
		body    string
		status  int
		code    ErrorCode
	}{
		{"bad order", "smtpd_recipient_restrictions", `{"listener":"3579","order":"middle"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"bad port", "smtpd_recipient_restrictions", `{"listener":"99999"}`, http.StatusBadRequest, "INVALID_PORT"},
		{"unknown listener", "smtpd_recipient_restrictions", `{"listener":"4000"}`, http.StatusNotFound, "LISTENER_NOT_FOUND"},
		{"unsupported section", "smtpd_foo", `{"listener":"3579"}`, http.StatusNotFound, "UNSUPPORTED_SECTION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/postfix/sections/"+tt.section+"/connect", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
		})
	}

	if got := readFile(t, env.cfg.Postfix.MainCf); got != testMainCf {
		t.Errorf("main.cf must not change on errors:\n%s", got)
	}
}

func TestGetConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/postfix/config?section=smtpd_recipient_restrictions", "")
	var resp ConfigResponse
	decodeData(t, rec, &resp)
	if !strings.Contains(resp.Config, "permit_mynetworks") || strings.Contains(resp.Config, "myhostname") {
		t.Errorf("Unexpected config: %q", resp.Config)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/postfix/config", "")
	decodeData(t, rec, &resp)
	if !strings.Contains(resp.Config, "myhostname") {
		t.Errorf("Expected full config, got %q", resp.Config)
	}
}

func TestGetHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", "")
	var status HealthResponse
	decodeData(t, rec, &status)
	if status.Started || status.Healthy {
		t.Errorf("Expected not started without pid file, got %+v", status)
	}

	if err := os.WriteFile(env.cfg.Valvula.PidFile, []byte("1"), 0644); err != nil {
		t.Fatal(err)
	}
	env.executor.Fail("valvulad -p", "no answer")

	rec = env.do(t, http.MethodGet, "/api/v1/health", "")
	decodeData(t, rec, &status)
	if !status.Started || status.Healthy || status.Recovered {
		t.Errorf("Expected started but unhealthy without recovery, got %+v", status)
	}
	for _, call := range env.executor.CallsSnapshot() {
		if strings.HasPrefix(call, "service") || strings.HasPrefix(call, "killall") {
			t.Errorf("Health must not restart the daemon, got call %q", call)
		}
	}
}

func TestCheckPolicy(t *testing.T) {
	env := newTestEnv(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil || line == "\n" {
				break
			}
		}
		conn.Write([]byte("action=DUNNO\n\n"))
	}()

	rec := env.do(t, http.MethodPost, "/api/v1/policy/check",
		`{"server":"`+ln.Addr().String()+`","sender":"a@example.com","recipient":"b@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp PolicyCheckResponse
	decodeData(t, rec, &resp)
	if resp.Reply == nil || resp.Reply.Action != "DUNNO" || len(resp.QueueID) != 9 {
		t.Errorf("Unexpected response: %+v", resp)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/policy/check", `{"server":"127.0.0.1:1","recipient":"not-an-address"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid recipient, got %d", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/nothing", "")
	if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != ErrCodeNotFound {
		t.Errorf("Expected not_found, got %d: %s", rec.Code, rec.Body.String())
	}
}
