package guard

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

func newTestGuard(branch string, err error) *Guard {
	g := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.currentBranch = func(string) (string, error) { return branch, err }
	return g
}

func TestVerifyMatch(t *testing.T) {
	g := newTestGuard("main", nil)
	local, ok := g.Verify(domain.RepoTarget{Name: "core-v4", Path: "/opt/core-v4"}, "main")
	if !ok {
		t.Fatalf("expected match")
	}
	if local != "main" {
		t.Fatalf("expected local branch main, got %q", local)
	}
}

func TestVerifyMismatch(t *testing.T) {
	g := newTestGuard("main", nil)
	local, ok := g.Verify(domain.RepoTarget{Name: "core-v4", Path: "/opt/core-v4"}, "dev")
	if ok {
		t.Fatalf("push to dev with main checked out must not verify")
	}
	if local != "main" {
		t.Fatalf("expected local branch main in report, got %q", local)
	}
}

func TestVerifyInspectionFailure(t *testing.T) {
	g := newTestGuard("", errors.New("not a repository"))
	local, ok := g.Verify(domain.RepoTarget{Name: "core-v4", Path: "/nope"}, "main")
	if ok {
		t.Fatalf("uninspectable working tree must not verify")
	}
	if local != UnknownBranch {
		t.Fatalf("expected %q, got %q", UnknownBranch, local)
	}
}
