// Package registry holds the immutable mapping from (repository, branch)
// to deployment target, built once at startup.
package registry

import (
	"log/slog"

	"github.com/SCE-Development/sce-cicd/internal/config"
	"github.com/SCE-Development/sce-cicd/internal/domain"
)

type key struct {
	name   string
	branch string
}

// Registry maps (repository, branch) pairs to targets. Nothing mutates it
// after Load, so concurrent reads need no lock.
type Registry struct {
	targets map[key]domain.RepoTarget
}

// Load builds a Registry from watch-list entries. Duplicate (name, branch)
// keys are a configuration mistake: the last entry wins and every
// overwrite is logged.
func Load(entries []config.RepoEntry, logger *slog.Logger) *Registry {
	targets := make(map[key]domain.RepoTarget, len(entries))
	for _, entry := range entries {
		k := key{name: entry.Name, branch: entry.Branch}
		if prev, ok := targets[k]; ok {
			logger.Warn("duplicate watch-list entry, keeping the later one",
				"repo", entry.Name, "branch", entry.Branch, "replaced_path", prev.Path)
		}
		targets[k] = domain.RepoTarget{
			Name:                    entry.Name,
			Branch:                  entry.Branch,
			Path:                    entry.Path,
			ForceRecreateContainers: append([]string(nil), entry.ForceRecreateContainers...),
		}
	}
	return &Registry{targets: targets}
}

// Lookup returns the target watching (name, branch).
func (r *Registry) Lookup(name, branch string) (domain.RepoTarget, bool) {
	target, ok := r.targets[key{name: name, branch: branch}]
	return target, ok
}

// Len reports how many targets are watched.
func (r *Registry) Len() int {
	return len(r.targets)
}
