package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/service"
)

func CreateListListenersCommand() *ListListenersCommand {
	c := &ListListenersCommand{fs: newFlagSet("list-listeners")}
	c.fs.StringVarP(&c.output, "output", "o", outputText, "Output format: text, json or yaml")
	return c
}

type ListListenersCommand struct {
	fs     *pflag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	output string
}

func (c *ListListenersCommand) Name() string {
	return c.fs.Name()
}

func (c *ListListenersCommand) Description() string {
	return "List declared valvula listeners and the modules they run"
}

func (c *ListListenersCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := checkOutputFormat(c.output); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ListListenersCommand) Run() error {
	svc := service.NewListenerService(c.cfg, c.ctx.Deps.AddressLister())
	listeners, err := svc.ListListeners()
	if err != nil {
		return err
	}

	return writeOutput(c.ctx.Out, c.output, listeners, func(w io.Writer) error {
		if len(listeners) == 0 {
			log.Infof("No listeners declared in %s", c.cfg.GetAbsValvulaConfFile())
			return nil
		}
		for _, l := range listeners {
			fmt.Fprintf(w, "Listener: %s:%s\n", l.Host, l.Port)
			if len(l.Modules) == 0 {
				fmt.Fprintf(w, "  (no modules)\n")
			}
			for _, m := range l.Modules {
				fmt.Fprintf(w, "  Module: %s\n", m)
			}
		}
		return nil
	})
}

func CreateListModulesCommand() *ListModulesCommand {
	return &ListModulesCommand{fs: newFlagSet("list-modules")}
}

type ListModulesCommand struct {
	fs  *pflag.FlagSet
	ctx *AppContext
	cfg *config.Config
}

func (c *ListModulesCommand) Name() string {
	return c.fs.Name()
}

func (c *ListModulesCommand) Description() string {
	return "List installed valvula modules"
}

func (c *ListModulesCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ListModulesCommand) Run() error {
	modules, err := service.NewListenerService(c.cfg, c.ctx.Deps.AddressLister()).Modules().Available()
	if err != nil {
		return err
	}
	for _, m := range modules {
		fmt.Fprintf(c.ctx.Out, "Module: %s\n", m)
	}
	return nil
}

func CreateAddListenerCommand() *AddListenerCommand {
	return &AddListenerCommand{fs: newFlagSet("add-listener")}
}

type AddListenerCommand struct {
	fs   *pflag.FlagSet
	ctx  *AppContext
	cfg  *config.Config
	decl string
}

func (c *AddListenerCommand) Name() string {
	return c.fs.Name()
}

func (c *AddListenerCommand) Description() string {
	return "Declare a listener: add-listener [HOST:]PORT"
}

func (c *AddListenerCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "[HOST:]PORT", 1); err != nil {
		return err
	}
	c.decl = c.fs.Arg(0)

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *AddListenerCommand) Run() error {
	svc := service.NewListenerService(c.cfg, c.ctx.Deps.AddressLister())
	info, added, err := svc.AddListener(context.Background(), c.decl)
	if err != nil {
		return err
	}

	if !added {
		log.Infof("Listener %s:%s is already declared, nothing to add", info.Host, info.Port)
		return nil
	}
	log.Infof("Listener %s:%s added, now you have to restart valvula!", info.Host, info.Port)
	return nil
}

func CreateAddModuleCommand() *AddModuleCommand {
	return &AddModuleCommand{fs: newFlagSet("add-module")}
}

type AddModuleCommand struct {
	fs     *pflag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	module string
	decl   string
}

func (c *AddModuleCommand) Name() string {
	return c.fs.Name()
}

func (c *AddModuleCommand) Description() string {
	return "Run a module on a listener: add-module MODULE [HOST:]PORT"
}

func (c *AddModuleCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "MODULE [HOST:]PORT", 2); err != nil {
		return err
	}
	c.module = strings.TrimSuffix(c.fs.Arg(0), ".xml")
	c.decl = c.fs.Arg(1)

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *AddModuleCommand) Run() error {
	svc := service.NewListenerService(c.cfg, c.ctx.Deps.AddressLister())
	added, err := svc.AddModule(c.module, c.decl)
	if err != nil {
		return err
	}

	if !added {
		log.Infof("Module %s already declared on that listener at %s", c.module, c.cfg.GetAbsValvulaConfFile())
		return nil
	}
	log.Infof("Module %s added, now you have to restart valvula!", c.module)
	return nil
}

