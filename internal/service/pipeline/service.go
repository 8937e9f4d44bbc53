// Package pipeline runs the deployment steps for one target: source
// sync, container rebuild, and optional forced recreation of named
// containers.
package pipeline

import (
	"context"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/SCE-Development/sce-cicd/internal/domain"
	"github.com/SCE-Development/sce-cicd/internal/metrics"
	"github.com/SCE-Development/sce-cicd/internal/notify"
	"github.com/SCE-Development/sce-cicd/internal/runner"
)

const defaultCommandTimeout = 300 * time.Second

// Service sequences the deployment steps and reports each attempt.
type Service struct {
	runner    runner.Runner
	formatter *notify.Formatter
	notifier  notify.Notifier
	sink      metrics.Sink
	logger    *slog.Logger
	timeout   time.Duration
}

// New constructs a pipeline service. timeout bounds each individual
// command, not the attempt as a whole.
func New(r runner.Runner, formatter *notify.Formatter, notifier notify.Notifier, sink metrics.Sink, logger *slog.Logger, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	return Service{
		runner:    r,
		formatter: formatter,
		notifier:  notifier,
		sink:      sink,
		logger:    logger.With("component", "pipeline"),
		timeout:   timeout,
	}
}

// Execute performs one deployment attempt and reports the outcome. Steps
// run strictly in order. A failed sync ends the attempt before any
// container command runs. A failed rebuild still allows the targeted
// force-recreate, which can revive specific containers on its own.
func (s Service) Execute(ctx context.Context, target domain.RepoTarget, commit domain.Commit, devMode bool) *domain.DeploymentStatus {
	s.sink.DeployStarted(target.Name)

	status := &domain.DeploymentStatus{
		ID:      uuid.NewString(),
		Repo:    target.Name,
		Branch:  target.Branch,
		Commit:  commit,
		DevMode: devMode,
	}

	if devMode {
		s.logger.Info("skipping command execution in dev mode", "repo", target.Name, "deployment_id", status.ID)
		s.report(ctx, status)
		return status
	}

	s.logger.Info("deployment started",
		"repo", target.Name, "branch", target.Branch, "commit", commit.ID, "deployment_id", status.ID)

	sync := s.runner.Run(ctx, []string{"git", "pull", "origin", target.Branch}, target.Path, s.timeout)
	status.Sync = &sync
	if !sync.Succeeded {
		s.logger.Error("source sync failed",
			"repo", target.Name, "exit_code", sync.ExitCode, "deployment_id", status.ID)
		s.report(ctx, status)
		return status
	}

	rebuild := s.runner.Run(ctx, []string{"docker-compose", "up", "--build", "-d"}, target.Path, s.timeout)
	status.Rebuild = &rebuild
	if !rebuild.Succeeded {
		s.logger.Error("container rebuild failed",
			"repo", target.Name, "exit_code", rebuild.ExitCode, "deployment_id", status.ID)
	}

	if len(target.ForceRecreateContainers) > 0 {
		argv := append(
			[]string{"docker-compose", "up", "--build", "-d", "--force-recreate", "--no-deps"},
			target.ForceRecreateContainers...,
		)
		force := s.runner.Run(ctx, argv, target.Path, s.timeout)
		status.ForceRecreate = &force
	}

	s.logger.Info("deployment finished",
		"repo", target.Name, "branch", target.Branch, "success", status.Succeeded(), "deployment_id", status.ID)
	s.report(ctx, status)
	return status
}

// ReportSkipped sends the branch-mismatch notification for a push that
// never reached the pipeline.
func (s Service) ReportSkipped(ctx context.Context, target domain.RepoTarget, incomingBranch, localBranch string) {
	s.send(ctx, s.formatter.FormatSkipped(target, incomingBranch, localBranch))
}

func (s Service) report(ctx context.Context, status *domain.DeploymentStatus) {
	s.send(ctx, s.formatter.Format(status))
}

// Notification delivery is best-effort: a dead webhook must never fail or
// delay a deployment.
func (s Service) send(ctx context.Context, report domain.Report) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, report); err != nil {
		s.logger.Warn("notification delivery failed", "title", report.Title, "error", err)
	}
}
