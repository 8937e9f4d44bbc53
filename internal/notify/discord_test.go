package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscordSendPostsEmbed(t *testing.T) {
	var received struct {
		Embeds []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Color       int    `json:"color"`
			Footer      *struct {
				Text string `json:"text"`
			} `json:"footer"`
		} `json:"embeds"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, discardLogger())
	report := domain.Report{
		Title:    "Deployment Successful",
		Severity: domain.SeveritySuccess,
		Body:     "**Repo:** `core-v4:dev`",
		Footer:   "footer text",
	}
	if err := n.Send(context.Background(), report); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(received.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(received.Embeds))
	}
	e := received.Embeds[0]
	if e.Title != report.Title || e.Description != report.Body {
		t.Fatalf("unexpected embed %+v", e)
	}
	if e.Color != severityColors[domain.SeveritySuccess] {
		t.Fatalf("unexpected color %#x", e.Color)
	}
	if e.Footer == nil || e.Footer.Text != "footer text" {
		t.Fatalf("footer not carried over: %+v", e.Footer)
	}
}

func TestDiscordSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, discardLogger())
	if err := n.Send(context.Background(), domain.Report{Title: "x"}); err == nil {
		t.Fatalf("expected error for 4xx response")
	}
}

func TestDiscordSendWithoutURL(t *testing.T) {
	n := NewDiscordNotifier("", discardLogger())
	if err := n.Send(context.Background(), domain.Report{Title: "x"}); err != nil {
		t.Fatalf("missing URL must be a no-op, got %v", err)
	}
}
