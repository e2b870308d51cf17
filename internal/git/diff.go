// Package git narrows a screening run to answer sheets touched in the
// working tree.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotcommander/screenscore/internal/discovery"
)

// GetStagedFiles returns absolute paths of staged answer sheets under
// rootPath. Returns an empty slice outside a git repository.
func GetStagedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	output, err := runGit(rootPath, "diff", "--name-only", "--relative", "--staged")
	if err != nil {
		return nil, err
	}
	return filterSheets(output, rootPath), nil
}

// GetChangedFiles returns absolute paths of answer sheets with uncommitted
// changes under rootPath, untracked sheets included. Returns an empty slice
// outside a git repository.
func GetChangedFiles(rootPath string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	var output string
	if _, err := runGit(rootPath, "rev-parse", "HEAD"); err != nil {
		// No commits yet: everything tracked counts as changed.
		output, err = runGit(rootPath, "ls-files")
		if err != nil {
			return nil, err
		}
	} else {
		output, err = runGit(rootPath, "diff", "--name-only", "--relative", "HEAD")
		if err != nil {
			return nil, err
		}
	}

	untracked, err := runGit(rootPath, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	return filterSheets(output+"\n"+untracked, rootPath), nil
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

func runGit(rootPath string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = rootPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, output)
	}
	return string(output), nil
}

// filterSheets turns git's path listing, relative to rootPath, into sorted
// absolute paths of answer sheets that still exist.
func filterSheets(gitOutput, rootPath string) []string {
	seen := make(map[string]bool)
	files := []string{}

	for _, line := range strings.Split(gitOutput, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isSheet(line) {
			continue
		}

		absPath := filepath.Join(rootPath, filepath.FromSlash(line))
		if seen[absPath] {
			continue
		}
		// git reports deletions too
		if _, err := os.Stat(absPath); err != nil {
			continue
		}
		seen[absPath] = true
		files = append(files, absPath)
	}

	sort.Strings(files)
	return files
}

// isSheet reports whether relPath follows the answer sheet naming
// convention, e.g. ana.sheet.yaml.
func isSheet(relPath string) bool {
	if discovery.DetectFormat(relPath) == discovery.FormatUnknown {
		return false
	}
	base := strings.ToLower(filepath.Base(relPath))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(stem, ".sheet")
}
