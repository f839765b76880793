package driver

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// ChangedFiles lists the JavaScript files modified, added or renamed in the
// working tree of the repository containing dir. Used by the --changed mode
// to scope a run to what the author actually touched.
func ChangedFiles(dir string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("driver: open repository at %s: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("driver: worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("driver: worktree status: %w", err)
	}

	root := worktree.Filesystem.Root()
	var files []string
	for path, st := range status {
		if !strings.HasSuffix(path, ".js") {
			continue
		}
		if st.Worktree == git.Deleted || st.Staging == git.Deleted {
			continue
		}
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(path)))
	}

	sort.Strings(files)
	return files, nil
}
