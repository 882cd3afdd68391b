package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/maksimkurb/valvula-mgr/src/internal/commands"
	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := commands.NewAppContext()

	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags.SetInterspersed(false)
	flags.StringVarP(&ctx.ConfigPath, "config", "c", config.DefaultConfigPath, "Path to the valvula-mgr settings file")
	flags.BoolVarP(&ctx.Verbose, "verbose", "v", false, "Enable debug logging")
	showVersion := flags.Bool("version", false, "Print version and exit")

	cmds := []commands.Runner{
		commands.CreateListListenersCommand(),
		commands.CreateListModulesCommand(),
		commands.CreateAddListenerCommand(),
		commands.CreateAddModuleCommand(),
		commands.CreateShowPostfixSectionsCommand(),
		commands.CreateConnectPostfixCommand(),
		commands.CreateShowPostfixConfCommand(),
		commands.CreateClassifyPostfixCommand(),
		commands.CreateConfigMySQLCommand(),
		commands.CreateSetUserCommand(),
		commands.CreateCheckCommand(),
		commands.CreateTestServerCommand(),
		commands.CreateShowSettingsCommand(),
		commands.CreateServerCommand(),
	}

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Valvula policy daemon manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [arguments]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		for _, cmd := range cmds {
			desc := ""
			if d, ok := cmd.(commands.Described); ok {
				desc = d.Description()
			}
			fmt.Fprintf(os.Stderr, "  %-22s  %s\n", cmd.Name(), desc)
		}
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	_ = flags.Parse(os.Args[1:])
	ctx.ConfigExplicit = flags.Changed("config")

	if *showVersion {
		fmt.Printf("valvula-mgr %s (Commit: %s, Date: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	args := flags.Args()
	if len(args) < 1 {
		flags.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				if errors.Is(err, pflag.ErrHelp) {
					os.Exit(0)
				}
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
