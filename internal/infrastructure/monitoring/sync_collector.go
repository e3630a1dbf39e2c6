package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"graylogsync/internal/core/domain"
	apperrors "graylogsync/pkg/errors"
)

// SyncCollector records the outcome of a reconciliation run.
type SyncCollector struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	usersProcessed *prometheus.GaugeVec
	permsChanged   *prometheus.GaugeVec
	lastRun        prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

func NewSyncCollector() *SyncCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &SyncCollector{
		registry: registry,

		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graylogsync_runs_total",
			Help: "Reconciliation runs by result (success or error code)",
		}, []string{"result"}),

		usersProcessed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "graylogsync_users",
			Help: "Users handled in the last run by action",
		}, []string{"action"}),

		permsChanged: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "graylogsync_permissions_changed",
			Help: "Permissions added or removed in the last run",
		}, []string{"direction"}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "graylogsync_last_run_timestamp_seconds",
			Help: "Unix time of the last run",
		}),

		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "graylogsync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
}

func (c *SyncCollector) RecordRun(summary *domain.Summary, err error) {
	now := float64(time.Now().Unix())
	c.lastRun.Set(now)

	if err != nil {
		result := string(apperrors.ErrCodeInternal)
		if appErr := apperrors.GetAppError(err); appErr != nil {
			result = string(appErr.Code)
		}
		c.runsTotal.WithLabelValues(result).Inc()
	} else {
		c.runsTotal.WithLabelValues("success").Inc()
		c.lastSuccess.Set(now)
	}

	if summary == nil {
		return
	}
	for _, action := range []domain.SyncAction{
		domain.SyncSkipped, domain.SyncUnchanged, domain.SyncUpdated, domain.SyncDeleted,
	} {
		c.usersProcessed.WithLabelValues(string(action)).Set(float64(summary.Count(action)))
	}

	added, removed := 0, 0
	for _, r := range summary.Results {
		added += len(r.Added)
		removed += len(r.Removed)
	}
	c.permsChanged.WithLabelValues("added").Set(float64(added))
	c.permsChanged.WithLabelValues("removed").Set(float64(removed))
}

// Gatherer exposes the collector's registry.
func (c *SyncCollector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the metrics in node_exporter textfile format.
func (c *SyncCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
