package service

import (
	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/valvulaconf"
)

func loadValvulaConf(cfg *config.Config) (*valvulaconf.Document, error) {
	return valvulaconf.Load(cfg.GetAbsValvulaConfFile())
}
