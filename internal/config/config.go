package config

import (
	"log/slog"
	"os"
	"time"
)

// Config holds runtime configuration for the CI/CD server.
type Config struct {
	Addr               string
	DevMode            bool
	WatchListPath      string
	DiscordWebhookURL  string
	DockerHost         string
	CommandTimeout     time.Duration
	DiskUsagePollEvery time.Duration
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Addr:               GetString("CICD_ADDR", ":3000"),
		DevMode:            GetBool("CICD_DEV_MODE", false),
		WatchListPath:      GetString("CICD_CONFIG", "config.yml"),
		DiscordWebhookURL:  GetString("CICD_DISCORD_WEBHOOK_URL", ""),
		DockerHost:         GetString("CICD_DOCKER_HOST", ""),
		CommandTimeout:     time.Duration(GetInt("CICD_COMMAND_TIMEOUT_SECONDS", 300)) * time.Second,
		DiskUsagePollEvery: time.Duration(GetInt("CICD_DISK_USAGE_POLL_SECONDS", 300)) * time.Second,
	}
}

// NewLogger returns a JSON slog.Logger configured for the given service name.
func NewLogger(service string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}
