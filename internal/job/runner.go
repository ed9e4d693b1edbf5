// Package job runs one backup followed by retention, one run at a time.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/backup"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/lock"
	"github.com/BrunoTulio/mongopher/internal/metrics"
	"github.com/BrunoTulio/mongopher/internal/notify"
	"github.com/BrunoTulio/mongopher/internal/retention"
)

var ErrAlreadyRunning = errors.New("backup already running")

type Trigger string

const (
	TriggerCron      Trigger = "cron"
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
	TriggerCLI       Trigger = "cli"
	TriggerStartup   Trigger = "startup"
)

type (
	Exporter interface {
		PerformBackup(ctx context.Context) (*backup.Summary, error)
	}

	Sweeper interface {
		CleanupOldBackups(ctx context.Context, keep int) (*retention.Report, error)
	}

	Result struct {
		Summary   *backup.Summary   `json:"summary"`
		Retention *retention.Report `json:"retention,omitempty"`
		Duration  time.Duration     `json:"-"`
	}

	Runner struct {
		log      logr.Logger
		exporter Exporter
		sweeper  Sweeper
		notifier notify.Notifier
		locker   lock.Locker
		opt      *Options

		mu      sync.Mutex
		running atomic.Bool
	}
)

// NewRunner builds a runner. locker may be nil to skip the cross-process guard.
func NewRunner(
	log logr.Logger,
	exporter Exporter,
	sweeper Sweeper,
	notifier notify.Notifier,
	locker lock.Locker,
	opts ...FnOptions,
) *Runner {
	opt := &Options{
		Keep:    config.DefaultKeep,
		Timeout: config.DefaultTimeout * time.Minute,
	}
	for _, o := range opts {
		o(opt)
	}

	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Runner{
		log:      log,
		exporter: exporter,
		sweeper:  sweeper,
		notifier: notifier,
		locker:   locker,
		opt:      opt,
	}
}

// Running reports whether a run is in progress in this process.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Run exports, then sweeps old folders. It returns ErrAlreadyRunning without
// doing anything when another run holds the guard.
func (r *Runner) Run(ctx context.Context, trigger Trigger) (*Result, error) {
	if !r.mu.TryLock() {
		metrics.RecordRun(string(trigger), metrics.StatusSkipped, 0)
		return nil, ErrAlreadyRunning
	}
	defer r.mu.Unlock()

	if r.locker != nil {
		locked, err := r.locker.TryLock()
		if err != nil {
			return nil, fmt.Errorf("backup lock: %w", err)
		}
		if !locked {
			metrics.RecordRun(string(trigger), metrics.StatusSkipped, 0)
			return nil, ErrAlreadyRunning
		}
		defer func() {
			if err := r.locker.Unlock(); err != nil {
				r.log.Warnf("⚠️  Failed to release backup lock: %v", err)
			}
		}()
	}

	r.running.Store(true)
	defer r.running.Store(false)

	if r.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opt.Timeout)
		defer cancel()
	}

	log := r.log.WithMap(map[string]any{"trigger": string(trigger)})
	log.Infof("⏰ Backup job started (%s)", trigger)

	start := time.Now()
	result, err := r.run(ctx)
	result.Duration = time.Since(start)

	if err != nil {
		log.Errorf("❌ Backup job failed after %s: %v", result.Duration.Round(time.Millisecond), err)
		metrics.RecordRun(string(trigger), metrics.StatusFailed, result.Duration)
		r.notifyError(ctx, fmt.Sprintf("%s backup failed: %v", trigger, err))
		return result, err
	}

	s := result.Summary
	status := metrics.StatusSuccess
	if s.FailedBackups > 0 {
		status = metrics.StatusPartial
	}
	metrics.RecordRun(string(trigger), status, result.Duration)

	msg := fmt.Sprintf("%d/%d collections saved to %s in %s",
		s.SuccessfulBackups, s.TotalCollections, s.FolderName, result.Duration.Round(time.Millisecond))
	log.Infof("✅ Backup job completed: %s", msg)

	if status == metrics.StatusPartial {
		r.notifyError(ctx, fmt.Sprintf("%s (%d failed)", msg, s.FailedBackups))
	} else {
		r.notifySuccess(ctx, msg)
	}

	return result, nil
}

func (r *Runner) run(ctx context.Context) (*Result, error) {
	result := &Result{}

	summary, err := r.exporter.PerformBackup(ctx)
	result.Summary = summary
	if summary != nil {
		metrics.RecordCollections(summary.SuccessfulBackups, summary.FailedBackups)
	}
	if err != nil {
		return result, fmt.Errorf("perform backup: %w", err)
	}

	report, err := r.sweeper.CleanupOldBackups(ctx, r.opt.Keep)
	result.Retention = report
	if err != nil {
		return result, fmt.Errorf("cleanup old backups: %w", err)
	}
	metrics.RecordRetention(report.Removed, report.Failed)

	return result, nil
}

// Notifications outlive the run timeout.
func (r *Runner) notifySuccess(ctx context.Context, msg string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := r.notifier.Success(ctx, msg); err != nil {
		r.log.Warnf("⚠️  Success notification failed: %v", err)
	}
}

func (r *Runner) notifyError(ctx context.Context, msg string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := r.notifier.Error(ctx, msg); err != nil {
		r.log.Warnf("⚠️  Error notification failed: %v", err)
	}
}
