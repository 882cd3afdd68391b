package commands

import (
	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

func CreateShowSettingsCommand() *ShowSettingsCommand {
	return &ShowSettingsCommand{fs: newFlagSet("show-settings")}
}

// ShowSettingsCommand prints the effective settings, defaults included.
type ShowSettingsCommand struct {
	fs  *pflag.FlagSet
	ctx *AppContext
	cfg *config.Config
}

func (c *ShowSettingsCommand) Name() string {
	return c.fs.Name()
}

func (c *ShowSettingsCommand) Description() string {
	return "Print the effective valvula-mgr settings as TOML"
}

func (c *ShowSettingsCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "", 0); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ShowSettingsCommand) Run() error {
	buf, err := c.cfg.SerializeConfig()
	if err != nil {
		return err
	}

	if path := c.cfg.GetConfigFilePath(); path != "" {
		log.Debugf("Settings loaded from %s", path)
	} else {
		log.Debugf("No settings file, showing defaults")
	}

	_, err = buf.WriteTo(c.ctx.Out)
	return err
}
