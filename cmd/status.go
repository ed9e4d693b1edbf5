package cmd

import (
	"context"
	"time"

	"github.com/BrunoTulio/mongopher/internal/status"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the backup configuration snapshot as JSON",
	Long: `Print the same document served by GET /backup/status: whether Drive
credentials are configured and where they come from, the parent folder, the
schedule, the retention policy and the selected and available collections.

Run outside the daemon, the schedule is read from the settings store and the
next run time is omitted.

Examples:
  mongopher status
  mongopher status -c /etc/mongopher/mongopher.yaml | jq .configSource`,
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := mustConfig()
	svc := newServices(cfg)
	defer svc.close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collector := status.NewCollector(cfg, svc.db, svc.settings, svc.connector, nil, nil)
	snap, err := collector.Snapshot(ctx)
	if err != nil {
		log.Fatalf("❌ Status check failed: %v", err)
	}

	printJSON(snap)
}
