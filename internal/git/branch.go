// Package git provides read-only inspection of local working trees.
package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// CurrentBranch returns the branch checked out at path. A detached HEAD is
// an error: a detached working tree is not deployable to any branch.
func CurrentBranch(path string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}
	return head.Name().Short(), nil
}
