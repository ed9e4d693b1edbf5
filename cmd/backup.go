package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BrunoTulio/mongopher/internal/backup"
	"github.com/BrunoTulio/mongopher/internal/job"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	backupTimeout  int
	backupProgress bool
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run a one-time MongoDB backup to Google Drive",
	Long: `Execute a one-time backup of the MongoDB database.

The backup process:
  1. Connects to MongoDB
  2. Creates a timestamped folder under the configured Drive parent
  3. Exports every selected collection as an Extended JSON file
  4. Optionally encrypts each file (AGE)
  5. Uploads backupsummary.json
  6. Keeps the newest backup folders and deletes the rest
  7. Sends notification on success or failure

The run shares its lock with the daemon, so it refuses to start while a
scheduled or manual backup is in progress.

Examples:
  # Run a backup
  mongopher backup

  # Custom timeout (default: backup.timeout_minutes)
  mongopher backup --timeout 60

  # Without the progress bar
  mongopher backup --progress=false`,
	Run: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().IntVarP(&backupTimeout, "timeout", "t", 0,
		"timeout in minutes (default: backup.timeout_minutes)")
	backupCmd.Flags().BoolVarP(&backupProgress, "progress", "p", true,
		"show a progress bar")
}

func runBackup(cmd *cobra.Command, args []string) {
	log.Info("🚀 Starting manual backup...")
	cfg := mustConfig()

	if backupTimeout > 0 {
		cfg.Backup.TimeoutMinutes = backupTimeout
	}

	var opts []backup.FnOptions
	var bar *progressbar.ProgressBar
	if backupProgress {
		opts = append(opts, backup.WithProgress(func(done, total int, collection string) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "exporting")
			}
			bar.Describe(collection)
			_ = bar.Add(1)
		}))
	}

	svc := newServices(cfg, opts...)
	defer svc.close()

	log.Infof("💾 Database: %s", svc.db.Name())
	connectOrFail(svc.db)

	result, err := svc.runner.Run(context.Background(), job.TriggerCLI)
	if bar != nil {
		_ = bar.Finish()
	}
	if errors.Is(err, job.ErrAlreadyRunning) {
		log.Warn("⚠️  Another backup is in progress, nothing to do")
		return
	}
	if err != nil {
		log.Fatalf("❌ Backup failed: %v", err)
	}

	printResult(result)
}

func printResult(result *job.Result) {
	s := result.Summary

	fmt.Println("\n✅ Backup completed")
	fmt.Printf("📁 Folder:      %s (%s)\n", s.FolderName, s.FolderID)
	fmt.Printf("📊 Collections: %d ok, %d failed, %d total\n",
		s.SuccessfulBackups, s.FailedBackups, s.TotalCollections)
	fmt.Printf("⏱️  Duration:    %s\n", result.Duration.Round(time.Millisecond))

	for _, c := range s.Collections {
		if !c.Success {
			fmt.Printf("   ❌ %s: %s\n", c.Collection, c.Error)
		}
	}

	if r := result.Retention; r != nil {
		fmt.Printf("🗑️  Retention:   %d found, %d removed, %d failed\n", r.Found, r.Removed, r.Failed)
	}
}
