// Package metrics exposes Prometheus instruments for backup runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"

	ReloadChanged   = "changed"
	ReloadUnchanged = "unchanged"
	ReloadError     = "error"
)

var (
	BackupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongopher_backup_runs_total",
			Help: "Backup runs by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	BackupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongopher_backup_duration_seconds",
			Help:    "Wall time of backup runs including retention",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800},
		},
		[]string{"trigger"},
	)

	CollectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongopher_collections_exported_total",
			Help: "Collections exported, by result",
		},
		[]string{"status"},
	)

	RetentionDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongopher_retention_folders_total",
			Help: "Backup folders handled by retention, by result",
		},
		[]string{"status"},
	)

	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongopher_last_success_timestamp_seconds",
			Help: "Unix time of the last backup run without failures",
		},
	)

	ScheduleReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongopher_schedule_reloads_total",
			Help: "Cron schedule reloads by result",
		},
		[]string{"result"},
	)
)

func RecordRun(trigger, status string, d time.Duration) {
	BackupRunsTotal.WithLabelValues(trigger, status).Inc()
	if status == StatusSkipped {
		return
	}
	BackupDuration.WithLabelValues(trigger).Observe(d.Seconds())
	if status == StatusSuccess {
		LastSuccessTimestamp.SetToCurrentTime()
	}
}

func RecordCollections(ok, failed int) {
	CollectionsTotal.WithLabelValues(StatusSuccess).Add(float64(ok))
	CollectionsTotal.WithLabelValues(StatusFailed).Add(float64(failed))
}

func RecordRetention(removed, failed int) {
	RetentionDeletedTotal.WithLabelValues("removed").Add(float64(removed))
	RetentionDeletedTotal.WithLabelValues(StatusFailed).Add(float64(failed))
}

func RecordScheduleReload(result string) {
	ScheduleReloadsTotal.WithLabelValues(result).Inc()
}
