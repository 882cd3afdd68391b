package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/policyclient"
	"github.com/maksimkurb/valvula-mgr/src/internal/service"
	"github.com/maksimkurb/valvula-mgr/src/internal/utils"
	"github.com/maksimkurb/valvula-mgr/src/internal/valvulaconf"
)

func CreateConfigMySQLCommand() *ConfigMySQLCommand {
	c := &ConfigMySQLCommand{fs: newFlagSet("config-mysql")}
	c.fs.StringVar(&c.db.Host, "host", "", "MySQL server host (unchanged when empty)")
	c.fs.StringVar(&c.db.Port, "port", "", "MySQL server port (unchanged when empty)")
	return c
}

type ConfigMySQLCommand struct {
	fs  *pflag.FlagSet
	ctx *AppContext
	cfg *config.Config
	db  valvulaconf.DatabaseSettings
}

func (c *ConfigMySQLCommand) Name() string {
	return c.fs.Name()
}

func (c *ConfigMySQLCommand) Description() string {
	return "Configure MySQL access: config-mysql DBNAME DBUSER DBPASS"
}

func (c *ConfigMySQLCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "DBNAME DBUSER DBPASS", 3); err != nil {
		return err
	}
	c.db.DBName, c.db.User, c.db.Password = c.fs.Arg(0), c.fs.Arg(1), c.fs.Arg(2)

	if c.db.Port != "" {
		if _, err := utils.ParsePort(c.db.Port); err != nil {
			return err
		}
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *ConfigMySQLCommand) Run() error {
	svc := service.NewDaemonService(c.cfg, c.ctx.Deps.Executor())
	if err := svc.ConfigureDatabase(context.Background(), c.db); err != nil {
		return err
	}
	log.Infof("MySQL access configured")
	return nil
}

func CreateSetUserCommand() *SetUserCommand {
	return &SetUserCommand{fs: newFlagSet("set-user")}
}

type SetUserCommand struct {
	fs    *pflag.FlagSet
	ctx   *AppContext
	cfg   *config.Config
	user  string
	group string
}

func (c *SetUserCommand) Name() string {
	return c.fs.Name()
}

func (c *SetUserCommand) Description() string {
	return "Run valvulad as another user: set-user USER GROUP"
}

func (c *SetUserCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if err := expectArgs(c.fs, "USER GROUP", 2); err != nil {
		return err
	}
	c.user, c.group = c.fs.Arg(0), c.fs.Arg(1)

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *SetUserCommand) Run() error {
	if err := service.NewDaemonService(c.cfg, c.ctx.Deps.Executor()).SetUser(c.user, c.group); err != nil {
		return err
	}
	log.Infof("valvulad will run as %s:%s, restart it to apply", c.user, c.group)
	return nil
}

func CreateCheckCommand() *CheckCommand {
	c := &CheckCommand{fs: newFlagSet("check")}
	c.fs.BoolVarP(&c.quiet, "quiet", "q", false, "Print nothing, report through the exit status only")
	c.fs.DurationVar(&c.timeout, "timeout", 60*time.Second, "Time limit for the check and the recovery")
	return c
}

type CheckCommand struct {
	fs      *pflag.FlagSet
	ctx     *AppContext
	cfg     *config.Config
	quiet   bool
	timeout time.Duration
}

func (c *CheckCommand) Name() string {
	return c.fs.Name()
}

func (c *CheckCommand) Description() string {
	return "Ping valvulad and restart it when it does not answer"
}

func (c *CheckCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	if c.quiet && !ctx.Verbose {
		log.DisableLogs()
	}
	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *CheckCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	status, err := service.NewDaemonService(c.cfg, c.ctx.Deps.Executor()).Check(ctx)
	if err != nil {
		return err
	}

	switch {
	case !status.Started:
		log.Infof("Nothing to check, %s", status.Message)
	case status.Recovered:
		log.Warnf("valvulad was failing and has been restarted")
	default:
		log.Infof("%s", status.Message)
	}
	return nil
}

func CreateTestServerCommand() *TestServerCommand {
	c := &TestServerCommand{fs: newFlagSet("test-server")}
	c.fs.StringVarP(&c.server, "server", "s", "", "Listener to query, [HOST:]PORT")
	c.fs.StringVar(&c.sender, "sender", "", "Source account")
	c.fs.StringVar(&c.recipient, "recipient", "", "Destination account (default: source account)")
	c.fs.StringVar(&c.saslUser, "sasl-user", "", "SASL user (default: source account)")
	c.fs.IntVarP(&c.count, "count", "n", 0, "How many test operations (default: 1)")
	c.fs.DurationVar(&c.timeout, "timeout", policyclient.DefaultTimeout, "Time limit for each request")
	return c
}

type TestServerCommand struct {
	fs  *pflag.FlagSet
	ctx *AppContext

	server    string
	sender    string
	recipient string
	saslUser  string
	count     int
	timeout   time.Duration

	host string
	port int
}

func (c *TestServerCommand) Name() string {
	return c.fs.Name()
}

func (c *TestServerCommand) Description() string {
	return "Send test policy requests to a listener and report the replies"
}

// Init asks for every value not given as a flag, the way the interactive
// installer did.
func (c *TestServerCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}

	p := &prompter{in: bufio.NewReader(ctx.In), out: ctx.Out}
	var err error

	if c.server == "" {
		if c.server, err = p.ask("Input server location", ""); err != nil {
			return err
		}
	}
	if c.host, c.port, err = utils.ParseHostPort(c.server); err != nil {
		return err
	}

	if c.sender == "" {
		if c.sender, err = p.ask("Source account", ""); err != nil {
			return err
		}
	}
	if c.recipient == "" {
		if c.recipient, err = p.ask("Destination account", c.sender); err != nil {
			return err
		}
	}
	if c.saslUser == "" {
		if c.saslUser, err = p.ask("Sasl user", c.sender); err != nil {
			return err
		}
	}
	if c.count == 0 {
		answer, err := p.ask("How many test operations?", "1")
		if err != nil {
			return err
		}
		if c.count, err = strconv.Atoi(answer); err != nil || c.count < 1 {
			return fmt.Errorf("invalid number of test operations: %s", answer)
		}
	}
	return nil
}

func (c *TestServerCommand) Run() error {
	client := policyclient.New(utils.FormatHostPort(c.host, c.port))
	client.Timeout = c.timeout

	for i := 0; i < c.count; i++ {
		reply, err := client.Check(context.Background(), policyclient.Request{
			Sender:       c.sender,
			Recipient:    c.recipient,
			SASLUsername: c.saslUser,
			MessageSize:  2819,
		})
		if err != nil {
			return err
		}
		log.Infof("Message received: action=%s", reply.Action)
		log.Infof("Reply in %d milliseconds", reply.Latency.Milliseconds())
	}
	return nil
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prints question and reads one line; an empty answer yields def.
func (p *prompter) ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if def != "" && err == io.EOF {
			return def, nil
		}
		return "", fmt.Errorf("no answer for %q: %w", question, err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
