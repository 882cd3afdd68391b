package valvulaconf

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
)

const sampleConf = `<?xml version='1.0' ?>
<valvula>
    <!-- policy listeners -->
    <general>
        <listen host="127.0.0.1" port="3579">
            <run module="mod-ticket"/>
        </listen>
        <listen host="0.0.0.0" port="3580"/>
    </general>
    <database>
        <config dbname="valvula" user="valvula" password="secret" host="localhost"/>
    </database>
    <global-settings>
        <running user="root" group="root" enabled="no"/>
        <log-file>/var/log/valvula.log</log-file>
    </global-settings>
</valvula>
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valvula.conf")
	if err := os.WriteFile(path, []byte(content), 0640); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_RoundTrip(t *testing.T) {
	path := writeConf(t, sampleConf)

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleConf, string(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "<valvula><general></valvula>"},
		{"empty", ""},
		{"wrong root", "<turbulence/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConf(t, tt.content))
			if !stderrors.Is(err, errors.New(errors.ErrCodeConfig, "")) {
				t.Errorf("Load() error = %v, want CONFIG_ERROR", err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.conf")); errors.CodeOf(err) != errors.ErrCodeConfig {
		t.Errorf("Load(missing) error = %v, want CONFIG_ERROR", err)
	}
}

func TestDocument_Get(t *testing.T) {
	doc, err := Load(writeConf(t, sampleConf))
	if err != nil {
		t.Fatal(err)
	}

	if n := doc.Get("/valvula/global-settings/log-file"); n == nil || n.Text() != "/var/log/valvula.log" {
		t.Errorf("Get(log-file) = %v", n)
	}
	if n := doc.Get("/valvula/missing"); n != nil {
		t.Errorf("Get(missing) = %v, want nil", n)
	}
	if n := doc.Get("/other/general"); n != nil {
		t.Errorf("Get(other root) = %v, want nil", n)
	}
}

func TestSettings(t *testing.T) {
	path := writeConf(t, sampleConf)
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	db, err := doc.Database()
	if err != nil {
		t.Fatal(err)
	}
	want := DatabaseSettings{DBName: "valvula", User: "valvula", Password: "secret", Host: "localhost"}
	if diff := cmp.Diff(want, db); diff != "" {
		t.Errorf("Database() mismatch (-want +got):\n%s", diff)
	}

	if err := doc.SetDatabase(DatabaseSettings{DBName: "mail", User: "postfix", Password: "p4ss"}); err != nil {
		t.Fatal(err)
	}
	if err := doc.SetRunning("valvula", "valvula"); err != nil {
		t.Fatal(err)
	}
	if err := doc.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	db, _ = reloaded.Database()
	want = DatabaseSettings{DBName: "mail", User: "postfix", Password: "p4ss", Host: "localhost"}
	if diff := cmp.Diff(want, db); diff != "" {
		t.Errorf("Database() after save mismatch (-want +got):\n%s", diff)
	}

	running, err := reloaded.Running()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(RunningSettings{User: "valvula", Group: "valvula", Enabled: true}, running); diff != "" {
		t.Errorf("Running() mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings_MissingNodes(t *testing.T) {
	doc := New(filepath.Join(t.TempDir(), "valvula.conf"))

	if _, err := doc.Database(); errors.CodeOf(err) != errors.ErrCodeConfig {
		t.Errorf("Database() error = %v, want CONFIG_ERROR", err)
	}
	if err := doc.SetRunning("a", "b"); errors.CodeOf(err) != errors.ErrCodeConfig {
		t.Errorf("SetRunning() error = %v, want CONFIG_ERROR", err)
	}
}
