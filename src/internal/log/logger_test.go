package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// capture redirects both streams into buffers for the duration of f.
func capture(t *testing.T, f func()) (string, string) {
	t.Helper()

	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	defer SetOutput(os.Stdout, os.Stderr)

	f()
	return out.String(), errOut.String()
}

func TestDebugf_VerboseOff(t *testing.T) {
	SetVerbose(false)

	stdout, stderr := capture(t, func() {
		Debugf("test debug message")
	})

	if stdout != "" || stderr != "" {
		t.Errorf("Expected no output when verbose is off, got stdout=%q stderr=%q", stdout, stderr)
	}
}

func TestDebugf_VerboseOn(t *testing.T) {
	SetVerbose(true)
	defer SetVerbose(false)

	stdout, _ := capture(t, func() {
		Debugf("classified %s", "smtpd_data_restrictions")
	})

	if stdout != "[DBG] classified smtpd_data_restrictions\n" {
		t.Errorf("Unexpected debug output: %q", stdout)
	}
}

func TestLevelsAndStreams(t *testing.T) {
	tests := []struct {
		name     string
		log      func()
		wantOut  string
		wantErr  string
		forceErr bool
	}{
		{"info", func() { Infof("listener added") }, "[INF] listener added\n", "", false},
		{"warn", func() { Warnf("module %s missing", "mod-ticket") }, "[WRN] module mod-ticket missing\n", "", false},
		{"error", func() { Errorf("write failed: %d", 42) }, "", "[ERR] write failed: 42\n", false},
		{"forced stderr", func() { Infof("to stderr") }, "", "[INF] to stderr\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetForceStdErr(tt.forceErr)
			defer SetForceStdErr(false)

			stdout, stderr := capture(t, tt.log)
			if stdout != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantOut)
			}
			if stderr != tt.wantErr {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestNonTerminalHasNoColors(t *testing.T) {
	stdout, _ := capture(t, func() {
		Infof("plain")
	})

	if strings.Contains(stdout, "\033[") {
		t.Errorf("Expected no ANSI escapes for a buffer destination, got %q", stdout)
	}
}
