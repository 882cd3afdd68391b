// Package log provides simple leveled logging for valvula-mgr.
//
// Messages are written with a short level prefix: DEBUG, INFO, WARN and ERROR.
// Debug messages are only shown in verbose mode. Errors always go to stderr,
// everything else to stdout unless SetForceStdErr(true) is called (commands
// whose stdout is machine readable, like show-postfix-conf, do that).
//
// Prefixes are colored with ANSI escapes when the destination is a terminal.
//
//	log.Infof("Listener %s:%d added", host, port)
//	log.Warnf("Module %s is not enabled", name)
//	log.Fatalf("Failed to load valvula.conf: %v", err) // exits with code 1
//
// The package uses global state guarded by a mutex so it can be called from
// the HTTP API goroutines.
package log
