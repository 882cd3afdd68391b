package postfix

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
	"github.com/maksimkurb/valvula-mgr/src/internal/log"
	"github.com/maksimkurb/valvula-mgr/src/internal/utils"
)

// DefaultMainCfPath is where Postfix keeps its main configuration on most distributions.
const DefaultMainCfPath = "/etc/postfix/main.cf"

// MainCf runs classification and merges against a main.cf file on disk.
//
// Every call reads the file again; nothing is cached between calls. Connect
// holds an exclusive lock on the directory of the file for the whole
// read-modify-write and replaces the file with a rename, so readers never see
// a partially written main.cf.
type MainCf struct {
	Path string
}

// NewMainCf returns a MainCf for path, or for DefaultMainCfPath when path is empty.
func NewMainCf(path string) *MainCf {
	if path == "" {
		path = DefaultMainCfPath
	}
	return &MainCf{Path: path}
}

// Classify reads the file and classifies the declaration of key.
func (m *MainCf) Classify(key string) (Classification, error) {
	contents, err := m.read()
	if err != nil {
		return NotFound, err
	}
	return Classify(key, contents), nil
}

// Normalize reads the file and returns its normalized form, see Normalize.
func (m *MainCf) Normalize(key string) (string, error) {
	contents, err := m.read()
	if err != nil {
		return "", err
	}
	return Normalize(contents, key), nil
}

// Connect adds token to key, creating the declaration when it is missing.
// The file is only written when the outcome is OutcomeUpdated or OutcomeCreated.
func (m *MainCf) Connect(key, token string, order Order) (Outcome, error) {
	unlock, err := m.lock()
	if err != nil {
		return OutcomeUpdated, err
	}
	defer unlock()

	contents, err := m.read()
	if err != nil {
		return OutcomeUpdated, err
	}

	updated, outcome, err := Connect(key, token, order, contents)
	if err != nil {
		return outcome, err
	}

	if outcome == OutcomeAlreadyPresent {
		log.Debugf("%s already contains %q, not rewriting %s", key, token, m.Path)
		return outcome, nil
	}

	log.Debugf("Declaration %s classified as %s, writing %s", key, Classify(key, contents), m.Path)
	if err := m.write(updated); err != nil {
		return outcome, err
	}

	return outcome, nil
}

func (m *MainCf) read() (string, error) {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return "", errors.NewConfigError(fmt.Sprintf("failed to read %s", m.Path), err)
	}
	return string(content), nil
}

// lock takes an exclusive flock on the directory holding the file. Locking the
// directory instead of the file keeps the lock valid across the rename in write.
func (m *MainCf) lock() (func(), error) {
	dir, err := os.Open(filepath.Dir(m.Path))
	if err != nil {
		return nil, errors.NewConfigError("failed to open configuration directory for locking", err)
	}

	if err := unix.Flock(int(dir.Fd()), unix.LOCK_EX); err != nil {
		utils.CloseOrWarn(dir)
		return nil, errors.NewConfigError(fmt.Sprintf("failed to lock %s", dir.Name()), err)
	}

	return func() {
		if err := unix.Flock(int(dir.Fd()), unix.LOCK_UN); err != nil {
			log.Warnf("Failed to unlock %s: %v", dir.Name(), err)
		}
		utils.CloseOrWarn(dir)
	}, nil
}

// write replaces the file with content through a temporary file in the same
// directory, keeping the mode and, when permitted, the owner of the original.
func (m *MainCf) write(content string) error {
	info, err := os.Stat(m.Path)
	if err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to stat %s", m.Path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.Path), "."+filepath.Base(m.Path)+".*")
	if err != nil {
		return errors.NewConfigError("failed to create temporary file", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		utils.CloseOrWarn(tmp)
		return errors.NewConfigError(fmt.Sprintf("failed to write %s", tmpName), err)
	}
	if err := tmp.Sync(); err != nil {
		utils.CloseOrWarn(tmp)
		return errors.NewConfigError(fmt.Sprintf("failed to sync %s", tmpName), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to close %s", tmpName), err)
	}

	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to set mode on %s", tmpName), err)
	}

	var st unix.Stat_t
	if err := unix.Stat(m.Path, &st); err == nil {
		if err := os.Chown(tmpName, int(st.Uid), int(st.Gid)); err != nil {
			log.Debugf("Keeping new owner of %s: %v", m.Path, err)
		}
	}

	if err := os.Rename(tmpName, m.Path); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to replace %s", m.Path), err)
	}
	committed = true

	return nil
}
