package service

import (
	"context"
	"fmt"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/domain"
	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/networking"
	"github.com/maksimkurb/valvula-mgr/src/internal/utils"
	"github.com/maksimkurb/valvula-mgr/src/internal/valvulaconf"
)

// ListenerService manages listeners and modules in valvula.conf.
type ListenerService struct {
	cfg       *config.Config
	addresses domain.AddressLister
}

// NewListenerService creates a new listener service.
func NewListenerService(cfg *config.Config, addresses domain.AddressLister) *ListenerService {
	return &ListenerService{cfg: cfg, addresses: addresses}
}

// ListListeners returns every declared listener with its modules.
func (s *ListenerService) ListListeners() ([]valvulaconf.ListenerInfo, error) {
	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return nil, err
	}

	result := []valvulaconf.ListenerInfo{}
	for _, l := range doc.Listeners() {
		result = append(result, l.Info())
	}
	return result, nil
}

// FindListener parses decl and reports whether a listener is declared there.
func (s *ListenerService) FindListener(decl string) (string, int, bool, error) {
	host, port, err := utils.ParseHostPort(decl)
	if err != nil {
		return "", 0, false, err
	}

	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return host, port, false, err
	}
	return host, port, doc.FindListener(host, port) != nil, nil
}

// AddListener declares a listener at decl ("port" or "host:port").
//
// The host must be a local address or a wildcard. When the listener already
// exists nothing is written and added is false.
func (s *ListenerService) AddListener(ctx context.Context, decl string) (info valvulaconf.ListenerInfo, added bool, err error) {
	host, port, err := utils.ParseHostPort(decl)
	if err != nil {
		return info, false, err
	}

	local, err := networking.IsLocalAddress(ctx, s.addresses, host)
	if err != nil {
		return info, false, errors.NewValidationError(fmt.Sprintf("unable to check listener host %s", host), err)
	}
	if !local {
		return info, false, errors.NewValidationError(fmt.Sprintf("%s is not an address of this host", host), nil)
	}

	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return info, false, err
	}

	if l := doc.FindListener(host, port); l != nil {
		log.Debugf("Listener %s already declared", utils.FormatHostPort(host, port))
		return l.Info(), false, nil
	}

	l, err := doc.AddListener(host, port)
	if err != nil {
		return info, false, err
	}
	if err := doc.Save(); err != nil {
		return info, false, err
	}

	return l.Info(), true, nil
}

// Modules returns the module catalogue of the configured base directory.
func (s *ListenerService) Modules() valvulaconf.Modules {
	return valvulaconf.Modules{BaseDir: s.cfg.GetAbsBaseDir()}
}

// AddModule runs module on the listener at decl and enables it in
// mods-enabled. Added is false when the module was already declared there.
func (s *ListenerService) AddModule(module, decl string) (added bool, err error) {
	host, port, err := utils.ParseHostPort(decl)
	if err != nil {
		return false, err
	}

	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return false, err
	}

	listener := doc.FindListener(host, port)
	if listener == nil {
		return false, errors.NewListenerNotFoundError(host, port)
	}

	available, err := s.Modules().IsAvailable(module)
	if err != nil {
		return false, err
	}
	if !available {
		return false, errors.NewModuleError(fmt.Sprintf("unable to add module %s, it is not currently installed", module), nil)
	}

	if !listener.AddModule(module) {
		log.Debugf("Module %s already declared on %s", module, utils.FormatHostPort(host, port))
		return false, nil
	}
	if err := doc.Save(); err != nil {
		return false, err
	}

	if _, err := s.Modules().Enable(module); err != nil {
		return true, err
	}
	return true, nil
}
