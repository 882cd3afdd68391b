package utils

import "path/filepath"

// GetAbsolutePath returns path unchanged when it is absolute or empty baseDir
// is given, otherwise path joined to baseDir. The result is cleaned.
func GetAbsolutePath(path, baseDir string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
