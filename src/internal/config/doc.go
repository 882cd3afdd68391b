// Package config handles the valvula-mgr settings file.
//
// The settings file is TOML and optional: every field has a default that
// matches a stock valvula installation, so the tool works without one.
//
//	[valvula]
//	config_file = "/etc/valvula/valvula.conf"
//	base_dir = "/etc/valvula"
//	binary = "valvulad"
//	service_name = "valvulad"
//	pid_file = "/var/run/valvulad.pid"
//
//	[postfix]
//	main_cf = "/etc/postfix/main.cf"
//	token_template = "check_policy_service inet:{{host}}:{{port}}"
//
//	[api]
//	listen_addr = "127.0.0.1:8089"
//
// Relative paths are resolved against the directory of the settings file.
// ValidateConfig reports every problem at once as ValidationErrors.
package config
