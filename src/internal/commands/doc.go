// Package commands implements CLI command handlers for valvula-mgr.
//
// Each command implements the Runner interface and delegates business logic
// to the service layer.
//
// # Command Structure
//
// All commands follow a consistent pattern:
//   - Init(): Parse arguments and load settings
//   - Run(): Execute command using service layer
//   - Name(): Return command name for routing
//
// # Example Usage
//
//	cmd := commands.CreateConnectPostfixCommand()
//	ctx := commands.NewAppContext()
//	if err := cmd.Init([]string{"smtpd_recipient_restrictions", "3579", "first"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
