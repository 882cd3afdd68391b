package service

import (
	"fmt"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/postfix"
	"github.com/maksimkurb/valvula-mgr/src/internal/utils"
)

// SectionInfo is the state of one restriction list in main.cf.
type SectionInfo struct {
	Name           string                 `json:"name" yaml:"name"`
	Classification postfix.Classification `json:"classification" yaml:"classification"`
	Value          string                 `json:"value" yaml:"value"`
}

// ConnectResult describes a completed connect operation.
type ConnectResult struct {
	Section string `json:"section"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Token   string `json:"token"`
	Outcome string `json:"outcome"`
}

// PostfixService connects valvula listeners to Postfix restriction lists.
type PostfixService struct {
	cfg *config.Config
}

// NewPostfixService creates a new postfix service.
func NewPostfixService(cfg *config.Config) *PostfixService {
	return &PostfixService{cfg: cfg}
}

func (s *PostfixService) mainCf() *postfix.MainCf {
	return postfix.NewMainCf(s.cfg.GetAbsMainCf())
}

// Sections returns the supported restriction lists.
func (s *PostfixService) Sections() []postfix.Section {
	return postfix.Sections()
}

// Token renders the configured restriction for a listener.
func (s *PostfixService) Token(host string, port int) string {
	return postfix.RenderToken(s.cfg.Postfix.TokenTemplate, host, port)
}

func checkSection(section string) error {
	if !postfix.IsSupportedSection(section) {
		return errors.New(errors.ErrCodeUnsupportedSection, fmt.Sprintf("postfix section %s isn't supported", section))
	}
	return nil
}

// Section classifies a restriction list and returns its normalized declaration.
func (s *PostfixService) Section(section string) (SectionInfo, error) {
	if err := checkSection(section); err != nil {
		return SectionInfo{}, err
	}

	m := s.mainCf()
	class, err := m.Classify(section)
	if err != nil {
		return SectionInfo{}, err
	}
	value, err := m.Normalize(section)
	if err != nil {
		return SectionInfo{}, err
	}

	return SectionInfo{Name: section, Classification: class, Value: value}, nil
}

// Normalized returns the effective configuration of file, or of the
// configured main.cf when file is empty. A non-empty section restricts the
// output to that declaration.
func (s *PostfixService) Normalized(file, section string) (string, error) {
	m := s.mainCf()
	if file != "" {
		m = postfix.NewMainCf(file)
	}
	return m.Normalize(section)
}

// Connect adds the restriction for the listener at decl to section.
//
// The checks run in a fixed order before main.cf is opened: a valid port,
// a valid order, a declared listener, a supported section.
func (s *PostfixService) Connect(section, decl, order string) (ConnectResult, error) {
	host, port, err := utils.ParseHostPort(decl)
	if err != nil {
		return ConnectResult{}, err
	}

	o, err := postfix.ParseOrder(order)
	if err != nil {
		return ConnectResult{}, err
	}

	doc, err := loadValvulaConf(s.cfg)
	if err != nil {
		return ConnectResult{}, err
	}
	if doc.FindListener(host, port) == nil {
		return ConnectResult{}, errors.NewListenerNotFoundError(host, port)
	}

	if err := checkSection(section); err != nil {
		return ConnectResult{}, err
	}

	token := s.Token(host, port)
	outcome, err := s.mainCf().Connect(section, token, o)
	if err != nil {
		return ConnectResult{}, err
	}

	log.Debugf("Connect %s to %s: %s", token, section, outcome)
	return ConnectResult{
		Section: section,
		Host:    host,
		Port:    port,
		Token:   token,
		Outcome: outcome.String(),
	}, nil
}
