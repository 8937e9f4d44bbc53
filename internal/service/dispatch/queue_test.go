package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

func TestQueueSerializesSameKey(t *testing.T) {
	target := domain.RepoTarget{Name: "core-v4", Branch: "dev", Path: "/opt/core-v4"}

	var mu sync.Mutex
	active := 0
	maxActive := 0
	runs := 0
	release := make(chan struct{})

	q := newQueue(func(_ context.Context, _ domain.RepoTarget, _ domain.Commit, _ bool) {
		mu.Lock()
		active++
		runs++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		<-release

		mu.Lock()
		active--
		mu.Unlock()
	})

	q.enqueue(context.Background(), job{target: target, commit: domain.Commit{ID: "a"}})
	q.enqueue(context.Background(), job{target: target, commit: domain.Commit{ID: "b"}})
	close(release)
	q.wait()

	if maxActive != 1 {
		t.Fatalf("same-key runs interleaved, max active %d", maxActive)
	}
	if runs != 2 {
		t.Fatalf("expected 2 runs, got %d", runs)
	}
}

func TestQueueCoalescesToNewestCommit(t *testing.T) {
	target := domain.RepoTarget{Name: "core-v4", Branch: "dev"}

	var mu sync.Mutex
	var commits []string
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	q := newQueue(func(_ context.Context, _ domain.RepoTarget, commit domain.Commit, _ bool) {
		mu.Lock()
		commits = append(commits, commit.ID)
		first := len(commits) == 1
		mu.Unlock()
		if first {
			close(firstStarted)
			<-release
		}
	})

	q.enqueue(context.Background(), job{target: target, commit: domain.Commit{ID: "first"}})
	<-firstStarted
	q.enqueue(context.Background(), job{target: target, commit: domain.Commit{ID: "stale"}})
	q.enqueue(context.Background(), job{target: target, commit: domain.Commit{ID: "newest"}})
	close(release)
	q.wait()

	if len(commits) != 2 {
		t.Fatalf("expected the queued pushes to coalesce into one run, got %v", commits)
	}
	if commits[1] != "newest" {
		t.Fatalf("coalesced run must use the freshest commit, got %q", commits[1])
	}
}

func TestQueueRunsDistinctKeysInParallel(t *testing.T) {
	started := make(chan string, 2)
	release := make(chan struct{})

	q := newQueue(func(_ context.Context, target domain.RepoTarget, _ domain.Commit, _ bool) {
		started <- target.Key()
		<-release
	})

	q.enqueue(context.Background(), job{target: domain.RepoTarget{Name: "core-v4", Branch: "dev"}})
	q.enqueue(context.Background(), job{target: domain.RepoTarget{Name: "sce-website", Branch: "main"}})

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("distinct keys did not run in parallel")
		}
	}
	close(release)
	q.wait()
}
