// Package status builds the backup status snapshot shared by the HTTP
// endpoint and the status command.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/drive"
	"github.com/BrunoTulio/mongopher/internal/scheduler"
	"github.com/BrunoTulio/mongopher/internal/settings"
)

const allCollections = "all"

type (
	Database interface {
		Connect(ctx context.Context) error
		ListCollectionNames(ctx context.Context) ([]string, error)
	}

	SettingsReader interface {
		Get(ctx context.Context, key string) (settings.Value, error)
	}

	Resolver interface {
		Resolve(ctx context.Context) drive.Credentials
	}

	// Schedule is satisfied by *scheduler.Scheduler.
	Schedule interface {
		Status() scheduler.Status
	}

	// Running is satisfied by *job.Runner.
	Running interface {
		Running() bool
	}

	Snapshot struct {
		Enabled              bool               `json:"enabled"`
		SchedulerEnabled     bool               `json:"schedulerEnabled"`
		Configured           bool               `json:"configured"`
		ParentFolderID       *string            `json:"parentFolderId"`
		BackupInterval       string             `json:"backupInterval"`
		Schedule             string             `json:"schedule"`
		RetentionPolicy      string             `json:"retentionPolicy"`
		SelectedCollections  any                `json:"selectedCollections"`
		AvailableCollections []string           `json:"availableCollections"`
		TotalCollections     int                `json:"totalCollections"`
		ConfigSource         drive.ConfigSource `json:"configSource"`
		NextRun              *time.Time         `json:"nextRun"`
		Running              bool               `json:"running"`
	}

	Collector struct {
		db       Database
		settings SettingsReader
		resolver Resolver
		schedule Schedule
		running  Running
		keep     int
		enabled  bool
	}
)

// NewCollector wires the snapshot sources. schedule and running may be nil
// when the caller has no scheduler or runner (the CLI).
func NewCollector(
	cfg *config.Config,
	db Database,
	store SettingsReader,
	resolver Resolver,
	schedule Schedule,
	running Running,
) *Collector {
	return &Collector{
		db:       db,
		settings: store,
		resolver: resolver,
		schedule: schedule,
		running:  running,
		keep:     cfg.Backup.Keep,
		enabled:  cfg.Backup.SchedulerEnabled,
	}
}

func (c *Collector) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := c.db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	available, err := c.db.ListCollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	selected, err := c.settings.Get(ctx, settings.KeySelectedCollections)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", settings.KeySelectedCollections, err)
	}

	creds := c.resolver.Resolve(ctx)

	snap := &Snapshot{
		Enabled:              creds.Configured(),
		SchedulerEnabled:     c.enabled,
		Configured:           creds.Configured() && creds.FolderID != "",
		RetentionPolicy:      RetentionPolicy(c.keep),
		SelectedCollections:  allCollections,
		AvailableCollections: available,
		TotalCollections:     len(available),
		ConfigSource:         creds.Source,
	}

	if creds.FolderID != "" {
		folder := creds.FolderID
		snap.ParentFolderID = &folder
	}

	if list := selected.StringsOr(nil); len(list) > 0 {
		snap.SelectedCollections = list
	}

	if err := c.fillSchedule(ctx, snap); err != nil {
		return nil, err
	}

	if c.running != nil {
		snap.Running = c.running.Running()
	}

	return snap, nil
}

func (c *Collector) fillSchedule(ctx context.Context, snap *Snapshot) error {
	var st scheduler.Status
	if c.schedule != nil {
		st = c.schedule.Status()
	}

	if st.Expression == "" {
		v, err := c.settings.Get(ctx, settings.KeyCronSchedule)
		if err != nil {
			return fmt.Errorf("read %s: %w", settings.KeyCronSchedule, err)
		}
		st.Expression = v.TrimmedStringOr(scheduler.DefaultExpression)
	}

	snap.Schedule = st.Expression
	snap.BackupInterval = scheduler.Interval(st.Expression)
	if !st.Next.IsZero() {
		next := st.Next
		snap.NextRun = &next
	}
	return nil
}

// RetentionPolicy describes how many folders are kept.
func RetentionPolicy(keep int) string {
	if keep == config.DefaultKeep {
		return fmt.Sprintf("%d backups (24 hours)", keep)
	}
	return fmt.Sprintf("%d backups", keep)
}
