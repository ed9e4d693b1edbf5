// Package retention removes backup folders beyond the configured count.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/drive"
	"github.com/BrunoTulio/mongopher/internal/utils"
)

type (
	Remote interface {
		ParentID() string
		ListFolders(ctx context.Context) ([]drive.Folder, error)
		Delete(ctx context.Context, id string) error
	}

	Opener func(ctx context.Context) (Remote, error)

	Drive struct {
		log  logr.Logger
		open Opener
	}

	Report struct {
		Found   int `json:"found"`
		Removed int `json:"removed"`
		Failed  int `json:"failed"`
	}
)

func NewDrive(log logr.Logger, open Opener) *Drive {
	return &Drive{
		log:  log,
		open: open,
	}
}

// CleanupOldBackups keeps the newest keep folders under the parent and
// deletes the rest. Delete failures are logged and skipped; only listing
// errors are returned.
func (d *Drive) CleanupOldBackups(ctx context.Context, keep int) (*Report, error) {
	if keep < 0 {
		return nil, fmt.Errorf("invalid keep %d", keep)
	}

	d.log.Info("🧹 Starting Drive retention")

	remote, err := d.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open drive: %w", err)
	}

	report := &Report{}

	if remote.ParentID() == "" {
		d.log.Info("No parent folder configured, skipping cleanup")
		return report, nil
	}

	folders, err := remote.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list backup folders: %w", err)
	}

	report.Found = len(folders)

	if len(folders) <= keep {
		d.log.Infof("%d backup folder(s), nothing to clean (keep %d)", len(folders), keep)
		return report, nil
	}

	for _, f := range folders[keep:] {
		d.log.Infof("Removing old backup: %s (age: %s)", f.Name, age(f.CreatedTime))

		if err := remote.Delete(ctx, f.ID); err != nil {
			d.log.Warnf("Failed to remove backup %s: %v", f.Name, err)
			report.Failed++
			continue
		}
		report.Removed++
	}

	d.log.Infof("✅ Cleanup completed:")
	d.log.Infof("   Removed: %d folder(s)", report.Removed)
	d.log.Infof("   Kept: %d folder(s)", report.Found-report.Removed)

	return report, nil
}

func age(created time.Time) string {
	if created.IsZero() {
		return "unknown"
	}
	return utils.FormatDuration(time.Since(created))
}
