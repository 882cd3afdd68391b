package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
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

const testMainCf = `smtpd_banner = $myhostname ESMTP
biff = no
smtpd_recipient_restrictions = permit_mynetworks, reject_unauth_destination
smtpd_data_restrictions =
    reject_unauth_pipelining
`

// newTestConfig lays out valvula.conf, main.cf and a module catalogue in a
// temp dir and returns settings pointing at them.
func newTestConfig(t *testing.T) *config.Config {
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
	return cfg
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}
