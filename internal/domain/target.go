package domain

// RepoTarget is one watched (repository, branch) pair and the checkout it
// deploys into. Targets are immutable after the registry loads them.
type RepoTarget struct {
	Name   string
	Branch string
	Path   string

	// Containers that need an explicit recreate beyond the standard
	// rebuild, in the order they were configured.
	ForceRecreateContainers []string
}

// Key identifies the target in the registry and the dispatch queue.
func (t RepoTarget) Key() string {
	return t.Name + ":" + t.Branch
}
