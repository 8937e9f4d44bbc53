package notify

import (
	"strings"
	"testing"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

func TestDisplayCommitID(t *testing.T) {
	cases := []struct {
		id   string
		want string
	}{
		{"abcdef1234567", "abcdef1"},
		{"no commit info", "no commit info"},
		{"abc", "abc"},
		{"abcdefg", "abcdefg"},
	}
	for _, tc := range cases {
		if got := DisplayCommitID(tc.id); got != tc.want {
			t.Errorf("DisplayCommitID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestFormatClassification(t *testing.T) {
	f := NewFormatter()

	devRun := &domain.DeploymentStatus{Repo: "core-v4", Branch: "dev", DevMode: true}
	if report := f.Format(devRun); report.Severity != domain.SeverityDevMode {
		t.Fatalf("dev-mode run classified as %q", report.Severity)
	}

	noSync := &domain.DeploymentStatus{Repo: "core-v4", Branch: "dev"}
	if report := f.Format(noSync); report.Severity != domain.SeveritySuccess {
		t.Fatalf("absent sync step classified as %q", report.Severity)
	}

	syncOK := &domain.DeploymentStatus{
		Repo: "core-v4", Branch: "dev",
		Sync: &domain.CommandOutcome{Command: "git pull origin dev", Succeeded: true},
	}
	if report := f.Format(syncOK); report.Severity != domain.SeveritySuccess {
		t.Fatalf("successful sync classified as %q", report.Severity)
	}

	syncFailed := &domain.DeploymentStatus{
		Repo: "core-v4", Branch: "dev",
		Sync: &domain.CommandOutcome{Command: "git pull origin dev", ExitCode: 1},
	}
	report := f.Format(syncFailed)
	if report.Severity != domain.SeverityFailure {
		t.Fatalf("failed sync classified as %q", report.Severity)
	}
	if report.Title != "Deployment Failed" {
		t.Fatalf("unexpected failure title %q", report.Title)
	}
}

func TestFormatBody(t *testing.T) {
	f := NewFormatter()
	status := &domain.DeploymentStatus{
		Repo:   "core-v4",
		Branch: "dev",
		Commit: domain.Commit{ID: "abcdef1234567", Message: "fix the thing", Author: "cleezy"},
		Sync:   &domain.CommandOutcome{Command: "git pull origin dev", Succeeded: true},
		Rebuild: &domain.CommandOutcome{
			Command:  "docker-compose up --build -d",
			ExitCode: 1,
			Stderr:   "network timeout",
		},
	}

	report := f.Format(status)
	for _, want := range []string{"core-v4:dev", "`abcdef1`", "fix the thing", "cleezy", "git pull origin dev", "(Exit: 1)", "network timeout"} {
		if !strings.Contains(report.Body, want) {
			t.Errorf("body missing %q:\n%s", want, report.Body)
		}
	}
}

func TestFormatBoundsErrorText(t *testing.T) {
	f := NewFormatter()
	status := &domain.DeploymentStatus{
		Repo:   "core-v4",
		Branch: "dev",
		Sync: &domain.CommandOutcome{
			Command:  "git pull origin dev",
			ExitCode: 1,
			Stderr:   strings.Repeat("x", 10_000),
		},
	}

	report := f.Format(status)
	if len(report.Body) > 2000 {
		t.Fatalf("report body not bounded, length %d", len(report.Body))
	}
	if !strings.Contains(report.Body, "[truncated]") {
		t.Fatalf("expected truncation marker in body")
	}
}

func TestFormatSkipped(t *testing.T) {
	f := NewFormatter()
	target := domain.RepoTarget{Name: "core-v4", Branch: "dev", Path: "/opt/core-v4"}

	report := f.FormatSkipped(target, "dev", "main")
	if report.Severity != domain.SeveritySkipped {
		t.Fatalf("skipped report classified as %q", report.Severity)
	}
	if report.Title != "Branch Mismatch: Deployment Skipped" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	for _, want := range []string{"`dev`", "`main`", "/opt/core-v4"} {
		if !strings.Contains(report.Body, want) {
			t.Errorf("body missing %q:\n%s", want, report.Body)
		}
	}
	if report.Footer == "" {
		t.Fatalf("skipped report needs its explanatory footer")
	}
}
