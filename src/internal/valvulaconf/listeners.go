package valvulaconf

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
)

// Listener is a <listen host port> element.
type Listener struct {
	elem *etree.Element
}

// ListenerInfo is the serializable view of a listener.
type ListenerInfo struct {
	Host    string   `json:"host" yaml:"host"`
	Port    string   `json:"port" yaml:"port"`
	Modules []string `json:"modules" yaml:"modules"`
}

func (l *Listener) Host() string {
	return l.elem.SelectAttrValue("host", "")
}

// Port returns the port attribute as written in the file.
func (l *Listener) Port() string {
	return l.elem.SelectAttrValue("port", "")
}

// Modules returns the module of every <run> child.
func (l *Listener) Modules() []string {
	modules := []string{}
	for _, run := range l.elem.SelectElements("run") {
		modules = append(modules, run.SelectAttrValue("module", ""))
	}
	return modules
}

// HasModule reports whether module runs on the listener.
func (l *Listener) HasModule(module string) bool {
	for _, m := range l.Modules() {
		if m == module {
			return true
		}
	}
	return false
}

// AddModule adds a <run module> child. It returns false when the module was already declared.
func (l *Listener) AddModule(module string) bool {
	if l.HasModule(module) {
		return false
	}
	l.elem.CreateElement("run").CreateAttr("module", module)
	return true
}

// Info returns the serializable view of l.
func (l *Listener) Info() ListenerInfo {
	return ListenerInfo{Host: l.Host(), Port: l.Port(), Modules: l.Modules()}
}

// Listeners returns every listener declared under /valvula/general.
func (d *Document) Listeners() []*Listener {
	general := d.Get("/valvula/general")
	if general == nil {
		return nil
	}

	var listeners []*Listener
	for _, e := range general.SelectElements("listen") {
		listeners = append(listeners, &Listener{elem: e})
	}
	return listeners
}

// FindListener returns the listener declared at host and port, or nil.
func (d *Document) FindListener(host string, port int) *Listener {
	p := strconv.Itoa(port)
	for _, l := range d.Listeners() {
		if l.Host() == host && l.Port() == p {
			return l
		}
	}
	return nil
}

// AddListener declares a new listener. It fails with LISTENER_EXISTS when one
// is already declared at host and port.
func (d *Document) AddListener(host string, port int) (*Listener, error) {
	if d.FindListener(host, port) != nil {
		return nil, errors.New(errors.ErrCodeListenerExists, fmt.Sprintf("listener %s:%d is already declared", host, port))
	}

	e := d.ensure("general").CreateElement("listen")
	e.CreateAttr("host", host)
	e.CreateAttr("port", strconv.Itoa(port))
	return &Listener{elem: e}, nil
}
