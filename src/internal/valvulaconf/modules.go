package valvulaconf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

// DefaultModule is reported when no module catalogue is installed.
const DefaultModule = "mod-ticket"

// Modules is the module catalogue below a valvula base directory.
type Modules struct {
	BaseDir string
}

func (m Modules) availableDir() string {
	return filepath.Join(m.BaseDir, "mods-available")
}

func (m Modules) enabledDir() string {
	return filepath.Join(m.BaseDir, "mods-enabled")
}

// Available lists installed modules, the *.xml files in mods-available
// without the extension.
func (m Modules) Available() ([]string, error) {
	entries, err := os.ReadDir(m.availableDir())
	if os.IsNotExist(err) {
		log.Infof("No modules found, %s does not exist. Reporting default known modules", m.availableDir())
		return []string{DefaultModule}, nil
	}
	if err != nil {
		return nil, errors.NewModuleError(fmt.Sprintf("failed to list %s", m.availableDir()), err)
	}

	var modules []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".xml"); ok && name != "" {
			modules = append(modules, name)
		}
	}
	sort.Strings(modules)
	return modules, nil
}

// IsAvailable reports whether module is installed.
func (m Modules) IsAvailable(module string) (bool, error) {
	modules, err := m.Available()
	if err != nil {
		return false, err
	}
	for _, name := range modules {
		if name == module {
			return true, nil
		}
	}
	return false, nil
}

// Enable links mods-available/<module>.xml into mods-enabled. It does nothing
// when the link already exists or when either side of it is missing.
func (m Modules) Enable(module string) (bool, error) {
	link := filepath.Join(m.enabledDir(), module+".xml")
	if _, err := os.Lstat(link); err == nil {
		return false, nil
	}

	target := filepath.Join(m.availableDir(), module+".xml")
	if _, err := os.Stat(target); err != nil {
		log.Debugf("Module file %s not found, not enabling %s", target, module)
		return false, nil
	}
	if _, err := os.Stat(m.enabledDir()); err != nil {
		log.Debugf("%s not found, not enabling %s", m.enabledDir(), module)
		return false, nil
	}

	if err := os.Symlink(target, link); err != nil {
		return false, errors.NewModuleError(fmt.Sprintf("failed to enable module %s", module), err)
	}
	log.Debugf("Linked %s -> %s", link, target)
	return true, nil
}
