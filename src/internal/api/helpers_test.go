package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/domain"
	"github.com/maksimkurb/valvula-mgr/src/internal/mocks"
)

const testValvulaConf = `<?xml version='1.0' ?>
<valvula>
    <general>
        <listen host="127.0.0.1" port="3579">
            <run module="mod-ticket" />
        </listen>
    </general>
</valvula>
`

const testMainCf = `myhostname = mail.example.com
smtpd_recipient_restrictions = permit_mynetworks, reject_unauth_destination
`

type testEnv struct {
	cfg      *config.Config
	executor *mocks.MockExecutor
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"valvula.conf":                  testValvulaConf,
		"main.cf":                       testMainCf,
		"mods-available/mod-ticket.xml": "<mod-valvula />",
		"mods-available/mod-mquota.xml": "<mod-valvula />",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "mods-enabled"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Valvula.ConfigFile = filepath.Join(dir, "valvula.conf")
	cfg.Valvula.BaseDir = dir
	cfg.Valvula.PidFile = filepath.Join(dir, "valvulad.pid")
	cfg.Postfix.MainCf = filepath.Join(dir, "main.cf")

	executor := mocks.NewMockExecutor()
	deps := domain.NewTestDependencies(executor, mocks.NewMockAddressLister("127.0.0.1", "10.0.0.5"))

	return &testEnv{cfg: cfg, executor: executor, router: NewRouter(cfg, deps)}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the "data" field of a successful response into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response %q: %v", rec.Body.String(), err)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("Invalid data %s: %v", resp.Data, err)
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON error response %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}
