// Package metrics defines the sink the orchestration core reports into
// and its prometheus implementation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink receives observability events from the core. Implementations must
// be safe for concurrent use; every operation is fire-and-forget.
type Sink interface {
	WebhookReceived()
	DeployStarted(repo string)
	SetImageDiskUsage(bytes int64)
}

// PromSink records the gauges on the default prometheus registry.
type PromSink struct {
	webhookTimestamp prometheus.Gauge
	pushTimestamp    *prometheus.GaugeVec
	imageDiskUsage   prometheus.Gauge
	now              func() time.Time
}

// NewPromSink registers the gauges, re-using collectors already present
// so repeated construction stays safe.
func NewPromSink() *PromSink {
	s := &PromSink{now: time.Now}

	s.webhookTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cicd",
		Name:      "last_webhook_request_timestamp_seconds",
		Help:      "Unix time of the last received webhook request",
	})
	s.pushTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "cicd",
		Name:      "last_push_timestamp_seconds",
		Help:      "Unix time of the last deployment attempt per repository",
	}, []string{"repo"})
	s.imageDiskUsage = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cicd",
		Name:      "docker_image_disk_usage_bytes",
		Help:      "Total disk usage of all Docker images in bytes",
	})

	if err := prometheus.Register(s.webhookTimestamp); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.webhookTimestamp = already.ExistingCollector.(prometheus.Gauge)
		}
	}
	if err := prometheus.Register(s.pushTimestamp); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.pushTimestamp = already.ExistingCollector.(*prometheus.GaugeVec)
		}
	}
	if err := prometheus.Register(s.imageDiskUsage); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.imageDiskUsage = already.ExistingCollector.(prometheus.Gauge)
		}
	}
	return s
}

// WebhookReceived stamps the webhook receipt gauge.
func (s *PromSink) WebhookReceived() {
	s.webhookTimestamp.Set(unixSeconds(s.now()))
}

// DeployStarted stamps the per-repository push gauge. Called at pipeline
// entry, so the presence of an attempt is observable regardless of outcome.
func (s *PromSink) DeployStarted(repo string) {
	s.pushTimestamp.WithLabelValues(repo).Set(unixSeconds(s.now()))
}

// SetImageDiskUsage records total docker image disk usage.
func (s *PromSink) SetImageDiskUsage(bytes int64) {
	s.imageDiskUsage.Set(float64(bytes))
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) WebhookReceived()        {}
func (NopSink) DeployStarted(string)    {}
func (NopSink) SetImageDiskUsage(int64) {}
