// Package guard blocks deployments whose working tree is not on the
// pushed branch. The working directory is the unit of deployment, so a
// push to a branch nobody has checked out must stay inert.
package guard

import (
	"log/slog"

	"github.com/SCE-Development/sce-cicd/internal/domain"
	"github.com/SCE-Development/sce-cicd/internal/git"
)

// UnknownBranch is reported as the local branch when the working tree
// cannot be inspected.
const UnknownBranch = "unknown"

// Guard verifies branch consistency before any mutating command runs.
type Guard struct {
	logger        *slog.Logger
	currentBranch func(path string) (string, error)
}

// New returns a guard inspecting working trees through go-git.
func New(logger *slog.Logger) *Guard {
	return &Guard{
		logger:        logger.With("component", "guard"),
		currentBranch: git.CurrentBranch,
	}
}

// Verify compares the pushed branch with the branch checked out in the
// target's working directory. ok is false on mismatch and on any failure
// to read the working tree; local carries the branch name for the
// skipped report.
func (g *Guard) Verify(target domain.RepoTarget, pushedBranch string) (local string, ok bool) {
	branch, err := g.currentBranch(target.Path)
	if err != nil {
		g.logger.Warn("could not inspect working tree", "repo", target.Name, "path", target.Path, "error", err)
		return UnknownBranch, false
	}
	if branch != pushedBranch {
		g.logger.Warn("branch mismatch", "repo", target.Name, "pushed", pushedBranch, "local", branch)
		return branch, false
	}
	return branch, true
}
