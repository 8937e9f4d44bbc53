// Package dispatch turns inbound push events into background deployment
// pipeline runs, one at a time per (repository, branch) key.
package dispatch

import (
	"context"
	"encoding/json"
	"strings"

	"log/slog"

	"github.com/SCE-Development/sce-cicd/internal/domain"
	"github.com/SCE-Development/sce-cicd/internal/registry"
	"github.com/SCE-Development/sce-cicd/internal/service/pipeline"
)

// Decision statuses returned to the webhook caller.
const (
	StatusAccepted = "accepted"
	StatusIgnored  = "ignored"
	StatusSkipped  = "skipped"
)

// Decision is the in-band outcome of one webhook delivery.
type Decision struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// BranchVerifier guards deployments behind working-tree consistency.
type BranchVerifier interface {
	Verify(target domain.RepoTarget, pushedBranch string) (local string, ok bool)
}

// Service is the webhook entry point into the orchestration core.
type Service struct {
	registry *registry.Registry
	guard    BranchVerifier
	pipeline pipeline.Service
	logger   *slog.Logger
	devMode  bool
	queue    *queue
}

// New constructs a dispatcher over the given registry, guard, and
// pipeline.
func New(reg *registry.Registry, g BranchVerifier, pipe pipeline.Service, logger *slog.Logger, devMode bool) *Service {
	s := &Service{
		registry: reg,
		guard:    g,
		pipeline: pipe,
		logger:   logger.With("component", "dispatch"),
		devMode:  devMode,
	}
	s.queue = newQueue(func(ctx context.Context, target domain.RepoTarget, commit domain.Commit, dev bool) {
		s.pipeline.Execute(ctx, target, commit, dev)
	})
	return s
}

// pushEvent is the narrow typed view over the GitHub push payload.
// Missing fields fall back to sentinel values instead of failing the
// delivery.
type pushEvent struct {
	Ref        string `json:"ref"`
	Repository struct {
		Name string `json:"name"`
	} `json:"repository"`
	HeadCommit struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Author  struct {
			Username string `json:"username"`
		} `json:"author"`
	} `json:"head_commit"`
}

func (e pushEvent) branch() string {
	parts := strings.Split(e.Ref, "/")
	return parts[len(parts)-1]
}

func (e pushEvent) commit() domain.Commit {
	c := domain.Commit{
		ID:      e.HeadCommit.ID,
		Message: e.HeadCommit.Message,
		Author:  e.HeadCommit.Author.Username,
	}
	if c.ID == "" {
		c.ID = "unknown"
	}
	if c.Message == "" {
		c.Message = "No message"
	}
	if c.Author == "" {
		c.Author = "unknown"
	}
	return c
}

// Handle decides what to do with one webhook delivery. Accepted
// deployments run in the background; the caller returns immediately.
func (s *Service) Handle(ctx context.Context, eventKind string, body []byte) Decision {
	if eventKind != "push" {
		return Decision{Status: StatusIgnored, Reason: "event " + eventKind + " is not 'push'"}
	}

	var event pushEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Warn("unparseable push payload", "error", err)
		return Decision{Status: StatusIgnored, Reason: "malformed payload"}
	}

	branch := event.branch()
	repoName := event.Repository.Name
	target, ok := s.registry.Lookup(repoName, branch)
	if !ok {
		s.logger.Warn("no configuration found", "repo", repoName, "branch", branch)
		return Decision{Status: StatusIgnored, Reason: "repository/branch not tracked"}
	}

	// In dev mode the working directory need not exist, so the guard is
	// bypassed and the pipeline runs its no-command form.
	if !s.devMode {
		local, ok := s.guard.Verify(target, branch)
		if !ok {
			s.pipeline.ReportSkipped(ctx, target, branch, local)
			return Decision{Status: StatusSkipped, Reason: "branch mismatch"}
		}
	}

	s.logger.Info("accepted push", "repo", repoName, "branch", branch)
	s.queue.enqueue(context.WithoutCancel(ctx), job{target: target, commit: event.commit(), devMode: s.devMode})
	return Decision{Status: StatusAccepted}
}

// Wait blocks until queued deployments drain. Used during shutdown and
// in tests.
func (s *Service) Wait() {
	s.queue.wait()
}
