package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apphttp "github.com/BrunoTulio/mongopher/internal/http"
	"github.com/BrunoTulio/mongopher/internal/job"
	"github.com/BrunoTulio/mongopher/internal/scheduler"
	"github.com/BrunoTulio/mongopher/internal/status"
	"github.com/BrunoTulio/mongopher/internal/version"
	"github.com/spf13/cobra"
)

const (
	readTimeout     = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run mongopher as a background service",
	Long: `Start mongopher in daemon mode to continuously run scheduled backups.

This command starts a long-running process that:
  - Schedules backups from the backup_cron_schedule setting (default "0,30 * * * *")
  - Re-reads the schedule every minute and swaps it when it changes
  - Serves /backup/manual, /backup/scheduled, /backup/status, /health and /metrics
  - Handles graceful shutdown on SIGTERM/SIGINT
  - Optionally runs a backup on startup

Examples:
  # Start daemon with default config
  mongopher daemon

  # Start with custom config
  mongopher daemon --config /etc/mongopher/mongopher.yaml

  # Run with Docker
  docker run -d mongopher daemon`,
	Run: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) {
	log.Infof("🦫 Starting %s", version.Get())

	cfg := mustConfig()
	svc := newServices(cfg)
	defer svc.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	if err := svc.db.Connect(connectCtx); err != nil {
		log.Errorf("❌ Database connection failed, will retry on first use: %v", err)
	}
	cancel()

	var (
		sched    *scheduler.Scheduler
		schedule status.Schedule
	)
	if cfg.Backup.SchedulerEnabled {
		sched = scheduler.NewWithOptions(svc.runner, svc.settings, log, scheduler.WithConfig(cfg))
		if err := sched.Start(ctx); err != nil {
			log.Errorf("❌ Failed to start scheduler: %v", err)
			sched = nil
		} else {
			schedule = sched
		}
	} else {
		log.Warn("⚠️  Scheduler disabled, backups run only through the HTTP triggers")
	}

	if cfg.RunOnStartup {
		go func() {
			log.Info("Running initial backup...")
			if _, err := svc.runner.Run(ctx, job.TriggerStartup); err != nil {
				log.Errorf("Initial backup failed: %v", err)
			}
		}()
	}

	collector := status.NewCollector(cfg, svc.db, svc.settings, svc.connector, schedule, svc.runner)

	s := http.Server{
		ReadTimeout:  readTimeout,
		IdleTimeout:  idleTimeout,
		WriteTimeout: cfg.Backup.Timeout() + time.Minute,
		Addr:         cfg.Server.Addr(),
		Handler:      apphttp.New(cfg.Server, svc.runner, collector, log),
	}

	go func() {
		log.Infof("🌐 HTTP server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("HTTP failed: %v", err)
			stop()
		}
	}()

	log.Info("mongopher is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Warnf("⚠️  HTTP shutdown: %v", err)
	}

	if sched != nil {
		sched.Stop()
	}

	log.Info("✅ Shutdown complete")
}
