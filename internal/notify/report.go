// Package notify turns deployment statuses into structured reports and
// delivers them to the outbound notification channel.
package notify

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

const (
	shortCommitLen = 7
	// Error text is bounded before inclusion to keep reports small.
	maxErrorLen = 900
)

// Formatter renders deployment statuses into notification reports.
type Formatter struct {
	host string
}

// NewFormatter captures the user@host identity stamped on every report.
func NewFormatter() *Formatter {
	return &Formatter{host: userAtHost()}
}

func userAtHost() string {
	name := "unknown"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return name + "@" + host
}

// Format classifies a finished deployment attempt. Dev-mode runs trump
// everything; otherwise the sync step decides success.
func (f *Formatter) Format(status *domain.DeploymentStatus) domain.Report {
	title := "Deployment Failed"
	severity := domain.SeverityFailure
	switch {
	case status.DevMode:
		title = "[Development Mode]"
		severity = domain.SeverityDevMode
	case status.Succeeded():
		title = "Deployment Successful"
		severity = domain.SeveritySuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Repo:** `%s:%s`\n", status.Repo, status.Branch)
	fmt.Fprintf(&b, "**Commit:** `%s` — %s\n", DisplayCommitID(status.Commit.ID), status.Commit.Message)
	fmt.Fprintf(&b, "**Author:** %s | **Host:** `%s`\n", status.Commit.Author, f.host)

	for _, outcome := range status.Outcomes() {
		icon := "✅"
		if !outcome.Succeeded {
			icon = "⚠️"
		}
		fmt.Fprintf(&b, "\n%s `%s` (Exit: %d)", icon, outcome.Command, outcome.ExitCode)
		if outcome.Stderr != "" {
			fmt.Fprintf(&b, "\n```stderr\n%s```", truncate(outcome.Stderr, maxErrorLen))
		}
	}

	return domain.Report{Title: title, Severity: severity, Body: b.String()}
}

// FormatSkipped reports a push that was not deployed because the working
// tree is on a different branch.
func (f *Formatter) FormatSkipped(target domain.RepoTarget, incomingBranch, localBranch string) domain.Report {
	var b strings.Builder
	fmt.Fprintf(&b, "**Incoming Push:** `%s`\n", incomingBranch)
	fmt.Fprintf(&b, "**Local Branch:** `%s`\n", localBranch)
	fmt.Fprintf(&b, "**Path:** `%s`\n", target.Path)
	fmt.Fprintf(&b, "**Host:** `%s`", f.host)

	return domain.Report{
		Title:    "Branch Mismatch: Deployment Skipped",
		Severity: domain.SeveritySkipped,
		Body:     b.String(),
		Footer:   "The local branch must match the pushed branch to trigger CI/CD.",
		URL:      "https://github.com/SCE-Development/" + target.Name,
	}
}

// DisplayCommitID shortens real commit hashes to 7 characters for
// display. Placeholder values containing whitespace are shown verbatim.
func DisplayCommitID(id string) string {
	if strings.Contains(id, " ") || len(id) <= shortCommitLen {
		return id
	}
	return id[:shortCommitLen]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n[truncated]"
}
