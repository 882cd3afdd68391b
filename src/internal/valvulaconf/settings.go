package valvulaconf

import (
	"github.com/beevik/etree"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
)

// DatabaseSettings mirrors /valvula/database/config.
type DatabaseSettings struct {
	DBName   string `json:"dbname" yaml:"dbname"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     string `json:"port,omitempty" yaml:"port,omitempty"`
}

// RunningSettings mirrors /valvula/global-settings/running.
type RunningSettings struct {
	User    string `json:"user" yaml:"user"`
	Group   string `json:"group" yaml:"group"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

func (d *Document) databaseNode() (*etree.Element, error) {
	node := d.Get("/valvula/database/config")
	if node == nil {
		return nil, errors.NewConfigError("unable to find database configuration node for valvula", nil)
	}
	return node, nil
}

// Database returns the MySQL settings.
func (d *Document) Database() (DatabaseSettings, error) {
	node, err := d.databaseNode()
	if err != nil {
		return DatabaseSettings{}, err
	}
	return DatabaseSettings{
		DBName:   node.SelectAttrValue("dbname", ""),
		User:     node.SelectAttrValue("user", ""),
		Password: node.SelectAttrValue("password", ""),
		Host:     node.SelectAttrValue("host", ""),
		Port:     node.SelectAttrValue("port", ""),
	}, nil
}

// SetDatabase sets dbname, user and password. Empty values leave the current
// attribute alone, so restoring settings read from an incomplete node does
// not add empty attributes. Host and port are only changed when given.
func (d *Document) SetDatabase(s DatabaseSettings) error {
	node, err := d.databaseNode()
	if err != nil {
		return err
	}

	for _, attr := range []struct{ name, value string }{
		{"dbname", s.DBName},
		{"user", s.User},
		{"password", s.Password},
		{"host", s.Host},
		{"port", s.Port},
	} {
		if attr.value != "" {
			node.CreateAttr(attr.name, attr.value)
		}
	}
	return nil
}

func (d *Document) runningNode() (*etree.Element, error) {
	node := d.Get("/valvula/global-settings/running")
	if node == nil {
		return nil, errors.NewConfigError("unable to find running configuration node for valvula", nil)
	}
	return node, nil
}

// Running returns the user and group valvulad drops privileges to.
func (d *Document) Running() (RunningSettings, error) {
	node, err := d.runningNode()
	if err != nil {
		return RunningSettings{}, err
	}
	return RunningSettings{
		User:    node.SelectAttrValue("user", ""),
		Group:   node.SelectAttrValue("group", ""),
		Enabled: node.SelectAttrValue("enabled", "") == "yes",
	}, nil
}

// SetRunning sets user and group and enables privilege dropping.
func (d *Document) SetRunning(user, group string) error {
	node, err := d.runningNode()
	if err != nil {
		return err
	}
	node.CreateAttr("user", user)
	node.CreateAttr("group", group)
	node.CreateAttr("enabled", "yes")
	return nil
}
