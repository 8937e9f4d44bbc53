package docker

import (
	"context"
	"time"

	"log/slog"

	"github.com/docker/go-units"

	"github.com/SCE-Development/sce-cicd/internal/metrics"
)

const (
	defaultPollInterval = 5 * time.Minute
	sampleTimeout       = 30 * time.Second
)

// UsageSampler reports total image disk usage in bytes.
type UsageSampler interface {
	ImageDiskUsage(ctx context.Context) (int64, error)
}

// Poller periodically samples docker image disk usage into the metrics
// sink.
type Poller struct {
	sampler  UsageSampler
	sink     metrics.Sink
	logger   *slog.Logger
	interval time.Duration
}

// NewPoller constructs a poller sampling every interval.
func NewPoller(sampler UsageSampler, sink metrics.Sink, logger *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		sampler:  sampler,
		sink:     sink,
		logger:   logger.With("component", "docker"),
		interval: interval,
	}
}

// Run samples once immediately, then on every tick until the context is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sample(ctx)
		}
	}
}

func (p *Poller) sample(ctx context.Context) {
	sampleCtx, cancel := context.WithTimeout(ctx, sampleTimeout)
	defer cancel()

	usage, err := p.sampler.ImageDiskUsage(sampleCtx)
	if err != nil {
		p.logger.Warn("could not sample image disk usage", "error", err)
		return
	}
	p.sink.SetImageDiskUsage(usage)
	p.logger.Debug("sampled image disk usage", "bytes", usage, "size", units.HumanSize(float64(usage)))
}
