package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/postfix"
)

const (
	DefaultConfigPath    = "/etc/valvula/valvula-mgr.toml"
	DefaultValvulaConf   = "/etc/valvula/valvula.conf"
	DefaultBaseDir       = "/etc/valvula"
	DefaultBinary        = "valvulad"
	DefaultServiceName   = "valvulad"
	DefaultPidFile       = "/var/run/valvulad.pid"
	DefaultAPIListenAddr = "127.0.0.1:8089"

	currentConfigVersion = 1
)

// DefaultConfig returns the settings of a stock installation.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the settings file at configPath. A missing file is not an
// error: the defaults are returned instead.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("Settings file %s not found, using defaults", configFile)
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config._absConfigFilePath = configFile
	config.applyDefaults()

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Valvula configuration: %s", config.GetAbsValvulaConfFile())
	log.Debugf("Postfix configuration: %s", config.GetAbsMainCf())

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.ConfigVersion == 0 {
		c.ConfigVersion = currentConfigVersion
	}

	if c.Valvula == nil {
		c.Valvula = &ValvulaConfig{}
	}
	if c.Valvula.ConfigFile == "" {
		c.Valvula.ConfigFile = DefaultValvulaConf
	}
	if c.Valvula.BaseDir == "" {
		c.Valvula.BaseDir = DefaultBaseDir
	}
	if c.Valvula.Binary == "" {
		c.Valvula.Binary = DefaultBinary
	}
	if c.Valvula.ServiceName == "" {
		c.Valvula.ServiceName = DefaultServiceName
	}
	if c.Valvula.PidFile == "" {
		c.Valvula.PidFile = DefaultPidFile
	}

	if c.Postfix == nil {
		c.Postfix = &PostfixConfig{}
	}
	if c.Postfix.MainCf == "" {
		c.Postfix.MainCf = postfix.DefaultMainCfPath
	}
	if c.Postfix.TokenTemplate == "" {
		c.Postfix.TokenTemplate = postfix.DefaultTokenTemplate
	}

	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = DefaultAPIListenAddr
	}
}

// SerializeConfig renders the effective settings as TOML.
func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}
