package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

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
    <database>
        <config dbname="valvula" user="valvula" password="secret" />
    </database>
    <global-settings>
        <running user="root" group="root" enabled="no" />
    </global-settings>
</valvula>
`

const testMainCf = `myhostname = mail.example.com
# smtpd_data_restrictions = permit
smtpd_recipient_restrictions =
    permit_mynetworks,
    reject_unauth_destination
`

// Paths are relative so they resolve against the settings file directory.
const testSettings = `[valvula]
config_file = "valvula.conf"
base_dir = "."
pid_file = "valvulad.pid"

[postfix]
main_cf = "main.cf"
`

type testEnv struct {
	dir      string
	ctx      *AppContext
	out      *bytes.Buffer
	executor *mocks.MockExecutor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"valvula-mgr.toml":              testSettings,
		"valvula.conf":                  testValvulaConf,
		"main.cf":                       testMainCf,
		"mods-available/mod-ticket.xml": "<mod-valvula />",
		"mods-available/mod-bwl.xml":    "<mod-valvula />",
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

	executor := mocks.NewMockExecutor()
	out := &bytes.Buffer{}
	ctx := &AppContext{
		ConfigPath:     filepath.Join(dir, "valvula-mgr.toml"),
		ConfigExplicit: true,
		Deps:           domain.NewTestDependencies(executor, mocks.NewMockAddressLister("127.0.0.1", "192.168.10.2")),
		In:             strings.NewReader(""),
		Out:            out,
	}
	return &testEnv{dir: dir, ctx: ctx, out: out, executor: executor}
}

// run initializes and runs cmd with args.
func (e *testEnv) run(t *testing.T, cmd Runner, args ...string) error {
	t.Helper()
	if err := cmd.Init(args, e.ctx); err != nil {
		return err
	}
	return cmd.Run()
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(e.dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}
