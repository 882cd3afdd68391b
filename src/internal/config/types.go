package config

import (
	"path/filepath"

	"github.com/maksimkurb/valvula-mgr/src/internal/utils"
)

type Config struct {
	// ConfigVersion is the settings file version.
	ConfigVersion uint8 `toml:"config_version" json:"config_version"`
	// Valvula locates the daemon, its configuration and its module catalogue.
	Valvula *ValvulaConfig `toml:"valvula" json:"valvula"`
	// Postfix locates main.cf and defines the injected restriction.
	Postfix *PostfixConfig `toml:"postfix" json:"postfix"`
	// API configures the local HTTP API started by "valvula-mgr server".
	API *APIConfig `toml:"api" json:"api"`

	_absConfigFilePath string
}

type ValvulaConfig struct {
	// ConfigFile is the valvula daemon configuration (default: /etc/valvula/valvula.conf).
	ConfigFile string `toml:"config_file" json:"config_file" validate:"required"`
	// BaseDir holds mods-available and mods-enabled (default: /etc/valvula).
	BaseDir string `toml:"base_dir" json:"base_dir" validate:"required"`
	// Binary is the valvulad executable used for ping and database checks (default: valvulad).
	Binary string `toml:"binary" json:"binary" validate:"required"`
	// ServiceName is the init service restarted on recovery (default: valvulad).
	ServiceName string `toml:"service_name" json:"service_name" validate:"required"`
	// PidFile marks a running daemon and is removed before a forced restart (default: /var/run/valvulad.pid).
	PidFile string `toml:"pid_file" json:"pid_file"`
}

type PostfixConfig struct {
	// MainCf is the Postfix main configuration file (default: /etc/postfix/main.cf).
	MainCf string `toml:"main_cf" json:"main_cf" validate:"required"`
	// TokenTemplate renders the restriction added to a section. Available variables: {{host}}, {{port}}.
	TokenTemplate string `toml:"token_template" json:"token_template" validate:"required,token_template"`
}

type APIConfig struct {
	// ListenAddr is the API listen address (default: 127.0.0.1:8089).
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"required,hostport_or_empty"`
}

func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetConfigFilePath returns the settings file the config was loaded from, or "" for defaults.
func (c *Config) GetConfigFilePath() string {
	return c._absConfigFilePath
}

func (c *Config) GetAbsValvulaConfFile() string {
	return utils.GetAbsolutePath(c.Valvula.ConfigFile, c.GetConfigDir())
}

func (c *Config) GetAbsBaseDir() string {
	return utils.GetAbsolutePath(c.Valvula.BaseDir, c.GetConfigDir())
}

func (c *Config) GetAbsMainCf() string {
	return utils.GetAbsolutePath(c.Postfix.MainCf, c.GetConfigDir())
}

func (c *Config) GetAbsPidFile() string {
	return utils.GetAbsolutePath(c.Valvula.PidFile, c.GetConfigDir())
}
