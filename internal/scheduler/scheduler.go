// Package scheduler keeps a single cron entry in sync with the schedule
// stored in the settings collection.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/job"
	"github.com/BrunoTulio/mongopher/internal/metrics"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/robfig/cron/v3"
)

const (
	DefaultExpression = "0,30 * * * *"

	reloadTimeout = 10 * time.Second
)

type (
	Runner interface {
		Run(ctx context.Context, trigger job.Trigger) (*job.Result, error)
	}

	SettingsReader interface {
		Get(ctx context.Context, key string) (settings.Value, error)
	}

	Status struct {
		Expression  string    `json:"expression"`
		Description string    `json:"description"`
		Next        time.Time `json:"nextRun"`
		Prev        time.Time `json:"prevRun"`
	}

	Scheduler struct {
		cron     *cron.Cron
		parser   cron.Parser
		runner   Runner
		settings SettingsReader
		log      logr.Logger
		opt      *Options

		mu      sync.Mutex
		ctx     context.Context
		expr    string
		entryID cron.EntryID
		pollID  cron.EntryID
	}
)

func newParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

type wrapLogger struct {
	logr.Logger
}

func (l *wrapLogger) Printf(format string, args ...interface{}) {
	l.Debugf(format, args...)
}

func New(runner Runner, store SettingsReader, log logr.Logger) *Scheduler {
	return NewWithOptions(runner, store, log)
}

func NewWithOptions(
	runner Runner,
	store SettingsReader,
	log logr.Logger,
	opts ...FnOptions,
) *Scheduler {
	opt := &Options{
		Location:     time.Local,
		PollInterval: config.DefaultPollSeconds * time.Second,
		Default:      DefaultExpression,
	}
	for _, fn := range opts {
		fn(opt)
	}

	parser := newParser()

	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(opt.Location),
		cron.WithLogger(cron.VerbosePrintfLogger(&wrapLogger{log})),
	)

	return &Scheduler{
		cron:     c,
		parser:   parser,
		runner:   runner,
		settings: store,
		log:      log,
		opt:      opt,
		ctx:      context.Background(),
	}
}

// Start installs the stored schedule (or the default when it cannot be
// used), adds the poll entry and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("🕐 Starting scheduler...")

	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	if err := s.Reload(ctx); err != nil {
		s.log.Errorf("⚠️  Failed to load backup schedule, using default %q: %v", s.opt.Default, err)
		if err := s.install(s.opt.Default); err != nil {
			return fmt.Errorf("install default schedule: %w", err)
		}
	}

	s.mu.Lock()
	s.pollID = s.cron.Schedule(cron.Every(s.opt.PollInterval), cron.FuncJob(s.poll))
	s.mu.Unlock()

	s.cron.Start()
	s.log.Infof("✅ Scheduler started (polling schedule every %s)", s.opt.PollInterval)

	return nil
}

// Stop halts the cron loop and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler...")

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.log.Info("✅ Scheduler stopped")
}

// Reload reads the stored expression and swaps the backup entry when it
// changed. On any error the installed entry is left untouched.
func (s *Scheduler) Reload(ctx context.Context) error {
	v, err := s.settings.Get(ctx, settings.KeyCronSchedule)
	if err != nil {
		metrics.RecordScheduleReload(metrics.ReloadError)
		return fmt.Errorf("read %s: %w", settings.KeyCronSchedule, err)
	}

	return s.install(v.TrimmedStringOr(s.opt.Default))
}

func (s *Scheduler) install(expr string) error {
	schedule, err := s.parser.Parse(expr)
	if err != nil {
		metrics.RecordScheduleReload(metrics.ReloadError)
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 && expr == s.expr {
		metrics.RecordScheduleReload(metrics.ReloadUnchanged)
		return nil
	}

	previous := s.expr
	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(s.runBackup))
	s.expr = expr
	metrics.RecordScheduleReload(metrics.ReloadChanged)

	if previous == "" {
		s.log.Infof("📅 Backup scheduled: %s (%s)", expr, Friendly(expr))
	} else {
		s.log.Infof("📅 Backup schedule changed: %s -> %s (%s)", previous, expr, Friendly(expr))
	}

	return nil
}

func (s *Scheduler) poll() {
	ctx, cancel := context.WithTimeout(s.baseContext(), reloadTimeout)
	defer cancel()

	if err := s.Reload(ctx); err != nil {
		s.log.Warnf("⚠️  Schedule reload failed, keeping %q: %v", s.Expression(), err)
	}
}

func (s *Scheduler) runBackup() {
	_, err := s.runner.Run(s.baseContext(), job.TriggerCron)

	switch {
	case errors.Is(err, job.ErrAlreadyRunning):
		s.log.Warn("⚠️  Backup already running, skipping scheduled run")
	case err != nil:
		s.log.Errorf("❌ Scheduled backup failed: %v", err)
	}
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Expression returns the installed expression, empty before the first load.
func (s *Scheduler) Expression() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expr
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	expr, id := s.expr, s.entryID
	s.mu.Unlock()

	st := Status{Expression: expr}
	if expr != "" {
		st.Description = Friendly(expr)
	}
	if id != 0 {
		entry := s.cron.Entry(id)
		st.Next = entry.Next
		st.Prev = entry.Prev
	}
	return st
}
