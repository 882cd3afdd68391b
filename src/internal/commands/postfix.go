package commands

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/postfix"
	"github.com/maksimkurb/valvula-mgr/src/internal/service"
)

const descriptionWidth = 76

func CreateShowPostfixSectionsCommand() *ShowPostfixSectionsCommand {
	c := &ShowPostfixSectionsCommand{fs: newFlagSet("show-postfix-sections")}
	c.fs.StringVarP(&c.output, "output", "o", outputText, "Output format: text, json or yaml")
	return c
}

type ShowPostfixSectionsCommand struct {
	fs     *pflag.FlagSet
	ctx    *AppContext
	cfg    *config.Config
	output string
}

func (c *ShowPostfixSectionsCommand) Name() string {
	return c.fs.Name()
}

func (c *ShowPostfixSectionsCommand) Description() string {
	return "Show the Postfix restriction lists valvula can be connected to"
}

func (c *ShowPostfixSectionsCommand) Init(args []string, ctx *AppContext) error {
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

func (c *ShowPostfixSectionsCommand) Run() error {
	sections := service.NewPostfixService(c.cfg).Sections()

	return writeOutput(c.ctx.Out, c.output, sections, func(w io.Writer) error {
		for _, s := range sections {
			fmt.Fprintf(w, "%s\n%s\n\n", s.Name, wrapText(s.Description, descriptionWidth, "    "))
		}
		return nil
	})
}

func CreateConnectPostfixCommand() *ConnectPostfixCommand {
	return &ConnectPostfixCommand{fs: newFlagSet("connect-postfix")}
}

type ConnectPostfixCommand struct {
	fs      *pflag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	section string
	decl    string
	order   string
}

func (c *ConnectPostfixCommand) Name() string {
	return c.fs.Name()
}

func (c *ConnectPostfixCommand) Description() string {
	return "Connect a listener to Postfix: connect-postfix SECTION [HOST:]PORT first|last"
}

func (c *ConnectPostfixCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "SECTION [HOST:]PORT first|last", 3); err != nil {
		return err
	}
	c.section, c.decl, c.order = c.fs.Arg(0), c.fs.Arg(1), c.fs.Arg(2)

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ConnectPostfixCommand) Run() error {
	res, err := service.NewPostfixService(c.cfg).Connect(c.section, c.decl, c.order)
	if err != nil {
		return err
	}

	if res.Outcome == postfix.OutcomeAlreadyPresent.String() {
		log.Infof("valvulad at %s:%d is already connected to %s", res.Host, res.Port, res.Section)
		return nil
	}
	log.Infof("Connected valvulad at %s:%d to %s", res.Host, res.Port, res.Section)
	log.Infof("Now you must restart postfix")
	return nil
}

func CreateShowPostfixConfCommand() *ShowPostfixConfCommand {
	c := &ShowPostfixConfCommand{fs: newFlagSet("show-postfix-conf")}
	c.fs.StringVarP(&c.file, "file", "f", "", "main.cf to read instead of the configured one")
	c.fs.StringVarP(&c.section, "section", "s", "", "Only show the declaration of this key")
	return c
}

type ShowPostfixConfCommand struct {
	fs      *pflag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	file    string
	section string
}

func (c *ShowPostfixConfCommand) Name() string {
	return c.fs.Name()
}

func (c *ShowPostfixConfCommand) Description() string {
	return "Show the effective main.cf without comments and continuation lines"
}

func (c *ShowPostfixConfCommand) Init(args []string, ctx *AppContext) error {
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

func (c *ShowPostfixConfCommand) Run() error {
	normalized, err := service.NewPostfixService(c.cfg).Normalized(c.file, c.section)
	if err != nil {
		return err
	}
	if normalized != "" {
		fmt.Fprintln(c.ctx.Out, normalized)
	}
	return nil
}

func CreateClassifyPostfixCommand() *ClassifyPostfixCommand {
	return &ClassifyPostfixCommand{fs: newFlagSet("classify-postfix")}
}

type ClassifyPostfixCommand struct {
	fs      *pflag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	section string
}

func (c *ClassifyPostfixCommand) Name() string {
	return c.fs.Name()
}

func (c *ClassifyPostfixCommand) Description() string {
	return "Show how a restriction list is declared: classify-postfix SECTION"
}

func (c *ClassifyPostfixCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "SECTION", 1); err != nil {
		return err
	}
	c.section = c.fs.Arg(0)

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ClassifyPostfixCommand) Run() error {
	info, err := service.NewPostfixService(c.cfg).Section(c.section)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.ctx.Out, info.Classification)
	return nil
}
