package domain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

// ShellExecutor runs commands with os/exec.
type ShellExecutor struct{}

func (ShellExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Debugf("Executing: %s %s", name, strings.Join(args, " "))
	err := cmd.Run()
	output := strings.TrimSpace(out.String())
	if err != nil {
		if output != "" {
			log.Debugf("%s output: %s", name, output)
		}
		return output, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return output, nil
}
