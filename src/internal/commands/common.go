package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/domain"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

// Described is implemented by commands that show up in the usage message.
type Described interface {
	Description() string
}

type AppContext struct {
	ConfigPath string
	// ConfigExplicit is set when the settings path was given on the command
	// line; a missing file is then an error instead of falling back to defaults.
	ConfigExplicit bool
	Verbose        bool

	Deps *domain.AppDependencies
	In   io.Reader
	Out  io.Writer
}

// NewAppContext returns a context wired to the real system and the process streams.
func NewAppContext() *AppContext {
	return &AppContext{
		ConfigPath: config.DefaultConfigPath,
		Deps:       domain.NewDefaultDependencies(),
		In:         os.Stdin,
		Out:        os.Stdout,
	}
}

// loadAndValidateConfigOrFail loads the settings file and validates it.
func loadAndValidateConfigOrFail(ctx *AppContext) (*config.Config, error) {
	if ctx.ConfigExplicit {
		if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", ctx.ConfigPath)
		}
	}

	cfg, err := config.LoadConfig(ctx.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

// newFlagSet creates a flag set for a command. Errors are returned, not printed twice.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// expectArgs checks the number of positional arguments.
func expectArgs(fs *pflag.FlagSet, usage string, n int) error {
	if fs.NArg() != n {
		return fmt.Errorf("%s expects %d argument(s): %s %s", fs.Name(), n, fs.Name(), usage)
	}
	return nil
}
