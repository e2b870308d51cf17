// Package project locates the class directory a screening run starts from.
package project

import (
	"os"
	"path/filepath"
)

// Markers are the entries that identify a screening root: a screenscore
// config file or a git checkout.
var Markers = []string{
	".screenscorerc.json",
	".screenscorerc.yaml",
	".screenscorerc.yml",
	".git",
}

// FindRoot searches for a screening root starting from startPath and
// climbing up the directory tree. When no marker is found it returns the
// absolute startPath.
func FindRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isRoot(currentDir) {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return absPath, nil
}

// isRoot reports whether path holds one of the Markers.
func isRoot(path string) bool {
	for _, m := range Markers {
		if _, err := os.Stat(filepath.Join(path, m)); err == nil {
			return true
		}
	}
	return false
}
