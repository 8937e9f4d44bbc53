package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/SCE-Development/sce-cicd/internal/domain"
)

// Notifier delivers reports to the outbound notification channel.
type Notifier interface {
	Send(ctx context.Context, report domain.Report) error
}

var severityColors = map[domain.Severity]int{
	domain.SeveritySuccess: 0x57F287,
	domain.SeverityFailure: 0xED4245,
	domain.SeverityDevMode: 0x99AAB5,
	domain.SeveritySkipped: 0xFFFF00,
}

// DiscordNotifier posts reports as embeds to a Discord webhook. With an
// empty URL every Send is a logged no-op.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

// NewDiscordNotifier constructs a notifier for the given webhook URL.
func NewDiscordNotifier(webhookURL string, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With("component", "notify"),
	}
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	URL         string       `json:"url,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// Send posts the report. Failures are returned for the caller to log;
// they must never abort a pipeline run.
func (n *DiscordNotifier) Send(ctx context.Context, report domain.Report) error {
	if n.webhookURL == "" {
		n.logger.Warn("discord webhook URL missing, dropping notification", "title", report.Title)
		return nil
	}

	e := embed{
		Title:       report.Title,
		Description: report.Body,
		Color:       severityColors[report.Severity],
		URL:         report.URL,
	}
	if report.Footer != "" {
		e.Footer = &embedFooter{Text: report.Footer}
	}
	payload, err := json.Marshal(map[string]any{"embeds": []embed{e}})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("discord webhook returned %s", resp.Status)
	}
	return nil
}
