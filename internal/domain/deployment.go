package domain

// CommandOutcome is the normalized result of one external command
// invocation. Launch failures and timeouts are folded in; Succeeded is
// true only for a clean zero exit.
type CommandOutcome struct {
	Command   string
	ExitCode  int
	Stdout    string
	Stderr    string
	Succeeded bool
}

// Commit is the narrow view of webhook commit metadata the pipeline needs.
type Commit struct {
	ID      string
	Message string
	Author  string
}

// DeploymentStatus aggregates a single deployment attempt. It is mutated
// only by the pipeline while the attempt runs, then handed off read-only
// to the notification formatter.
type DeploymentStatus struct {
	ID      string
	Repo    string
	Branch  string
	Commit  Commit
	DevMode bool

	Sync          *CommandOutcome
	Rebuild       *CommandOutcome
	ForceRecreate *CommandOutcome
}

// Outcomes returns the recorded command outcomes in execution order.
func (s *DeploymentStatus) Outcomes() []*CommandOutcome {
	outcomes := make([]*CommandOutcome, 0, 3)
	for _, o := range []*CommandOutcome{s.Sync, s.Rebuild, s.ForceRecreate} {
		if o != nil {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes
}

// Succeeded reports whether the attempt classifies as successful. The sync
// step decides: absent (dev mode) or clean counts as success.
func (s *DeploymentStatus) Succeeded() bool {
	return s.Sync == nil || s.Sync.Succeeded
}
