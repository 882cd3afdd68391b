package valvulaconf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

const (
	// DefaultBaseDir is the valvula configuration directory.
	DefaultBaseDir = "/etc/valvula"

	rootName    = "valvula"
	indentation = 4
)

// Document is a loaded valvula.conf.
type Document struct {
	path string
	doc  *etree.Document
}

// Load parses the configuration file at path.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("unable to open file located at %s", path), err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("unable to parse %s", path), err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.NewConfigError(fmt.Sprintf("%s has no root element", path), nil)
	}
	if root.Tag != rootName {
		return nil, errors.NewConfigError(fmt.Sprintf("unexpected root element <%s> in %s, expected <%s>", root.Tag, path, rootName), nil)
	}

	log.Debugf("Loaded valvula configuration from %s", path)
	return &Document{path: path, doc: doc}, nil
}

// New returns an empty document that Save will write to path.
func New(path string) *Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", "version='1.0' ")
	doc.CreateElement(rootName)
	return &Document{path: path, doc: doc}
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Root returns the <valvula> element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Get returns the first element at an absolute path like "/valvula/general".
func (d *Document) Get(path string) *etree.Element {
	return d.doc.FindElement(path)
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	d.doc.Indent(indentation)
	b, err := d.doc.WriteToBytes()
	if err != nil {
		log.Errorf("Failed to render %s: %v", d.path, err)
	}
	return b
}

// Save writes the document back to its path, replacing the file atomically.
func (d *Document) Save() error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(d.path), "."+filepath.Base(d.path)+".tmp")
	if err := os.WriteFile(tmp, d.Bytes(), mode); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to write %s", tmp), err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		_ = os.Remove(tmp)
		return errors.NewConfigError(fmt.Sprintf("failed to save %s", d.path), err)
	}

	log.Debugf("Saved valvula configuration to %s", d.path)
	return nil
}

// ensure returns the element at names below the root, creating missing elements.
func (d *Document) ensure(names ...string) *etree.Element {
	cur := d.Root()
	for _, name := range names {
		next := cur.SelectElement(name)
		if next == nil {
			next = cur.CreateElement(name)
		}
		cur = next
	}
	return cur
}
