// Package runner executes external commands and captures normalized
// outcomes. Nothing here returns an error: launch failures, non-zero
// exits, and timeouts all become CommandOutcomes the pipeline can report.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"log/slog"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

const (
	// Exit code recorded when the process could not even launch.
	launchFailureExitCode = 1
	// Exit code recorded when the process was killed on timeout, matching
	// what exec.ExitCode reports for a signaled process.
	timeoutExitCode = -1
)

// Runner executes external commands with a bounded timeout.
type Runner interface {
	Run(ctx context.Context, argv []string, dir string, timeout time.Duration) domain.CommandOutcome
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	logger *slog.Logger
}

// New returns a runner logging through the given logger.
func New(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger.With("component", "runner")}
}

// Run executes argv in dir, killing the process if timeout elapses.
func (r *ExecRunner) Run(ctx context.Context, argv []string, dir string, timeout time.Duration) domain.CommandOutcome {
	display := strings.Join(argv, " ")
	outcome := domain.CommandOutcome{Command: display, ExitCode: launchFailureExitCode}
	if len(argv) == 0 {
		outcome.Stderr = "empty command"
		return outcome
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir
	// Never let git stall a deployment waiting for credentials.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome.Stdout = strings.TrimSpace(stdout.String())
	outcome.Stderr = strings.TrimSpace(stderr.String())

	switch {
	case err == nil:
		outcome.ExitCode = 0
		outcome.Succeeded = true
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome.ExitCode = timeoutExitCode
		outcome.Stderr = appendLine(outcome.Stderr, "command timed out after "+timeout.String())
		r.logger.Error("command timed out", "command", display, "dir", dir, "timeout", timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		} else {
			outcome.Stderr = appendLine(outcome.Stderr, err.Error())
		}
		r.logger.Error("command failed", "command", display, "dir", dir, "exit_code", outcome.ExitCode, "error", err)
	}
	return outcome
}

func appendLine(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
