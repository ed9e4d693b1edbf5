package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BrunoTulio/mongopher/internal/scheduler"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/spf13/cobra"
)

var (
	settingsCategory  string
	settingsUpdatedBy string
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change backup settings stored in MongoDB",
	Long: `Manage the documents of the systemsettings collection that drive the
backup service. Changes to backup_cron_schedule are picked up by a running
daemon within a minute; the other keys are read at the start of every run.

Keys:
  backup_cron_schedule                 cron expression, default "0,30 * * * *"
  backup_selected_collections          list of collections, empty = all
  backup_google_drive_folder_id        parent folder for backup folders
  backup_google_oauth_client_id        OAuth client used when env has none
  backup_google_oauth_client_secret
  backup_google_oauth_refresh_token

Examples:
  mongopher settings list --category backup
  mongopher settings get backup_cron_schedule
  mongopher settings set-schedule "0 */2 * * *"
  mongopher settings set-collections users,orders,customer_accounts
  mongopher settings set-folder 1AbCdEfGh`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the value of one setting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *settings.Store) {
			v, err := store.Get(ctx, args[0])
			if err != nil {
				log.Fatalf("❌ Failed to read %s: %v", args[0], err)
			}
			if v.IsNull() {
				fmt.Printf("%s is not set\n", args[0])
				return
			}
			printJSON(v.Raw())
		})
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings, optionally of one category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withStore(func(ctx context.Context, store *settings.Store) {
			list, err := store.List(ctx, settingsCategory)
			if err != nil {
				log.Fatalf("❌ Failed to list settings: %v", err)
			}
			if len(list) == 0 {
				fmt.Println("No settings found")
				return
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "KEY\tCATEGORY\tVALUE\tUPDATED BY")
			for _, s := range list {
				raw, _ := json.Marshal(s.Value)
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Key, s.Category, raw, s.UpdatedBy)
			}
			_ = w.Flush()
		})
	},
}

var settingsScheduleCmd = &cobra.Command{
	Use:   "set-schedule [cron expression]",
	Short: "Store the backup cron expression",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		expr := strings.TrimSpace(args[0])
		if err := scheduler.Validate(expr); err != nil {
			log.Fatalf("❌ %v", err)
		}

		saveSetting(settings.Setting{
			Key:         settings.KeyCronSchedule,
			Value:       expr,
			Description: fmt.Sprintf("Backup schedule (%s)", scheduler.Friendly(expr)),
		})
		fmt.Printf("📅 Schedule set to %q (%s)\n", expr, scheduler.Friendly(expr))
	},
}

var settingsCollectionsCmd = &cobra.Command{
	Use:   "set-collections [a,b,c]",
	Short: "Store the collections included in backups (empty = all)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		selected := []string{}
		if len(args) == 1 {
			for _, name := range strings.Split(args[0], ",") {
				if name = strings.TrimSpace(name); name != "" {
					selected = append(selected, name)
				}
			}
		}

		saveSetting(settings.Setting{
			Key:         settings.KeySelectedCollections,
			Value:       selected,
			Description: fmt.Sprintf("Collections to include in automated backups (%d collections)", len(selected)),
		})

		if len(selected) == 0 {
			fmt.Println("📊 All collections will be backed up")
			return
		}
		fmt.Printf("📊 Selected %d collections: %s\n", len(selected), strings.Join(selected, ", "))
	},
}

var settingsFolderCmd = &cobra.Command{
	Use:   "set-folder [folder id]",
	Short: "Store the Drive folder that receives backup folders",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		saveSetting(settings.Setting{
			Key:         settings.KeyDriveFolderID,
			Value:       strings.TrimSpace(args[0]),
			Description: "Google Drive parent folder for backups",
		})
		fmt.Printf("📁 Backup folder set to %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd, settingsListCmd, settingsScheduleCmd, settingsCollectionsCmd, settingsFolderCmd)

	settingsListCmd.Flags().StringVar(&settingsCategory, "category", "", "only list this category (general, pricing, features, limits, backup)")
	settingsCmd.PersistentFlags().StringVar(&settingsUpdatedBy, "updated-by", "", "updatedBy recorded on writes (default: admin)")
}

func withStore(fn func(ctx context.Context, store *settings.Store)) {
	cfg := mustConfig()
	db := newDatabase(cfg)
	connectOrFail(db)
	defer func() {
		_ = db.Disconnect(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, settings.NewStore(db, log))
}

func saveSetting(s settings.Setting) {
	s.Category = settings.CategoryBackup
	s.UpdatedBy = settingsUpdatedBy

	withStore(func(ctx context.Context, store *settings.Store) {
		if err := store.Set(ctx, s); err != nil {
			log.Fatalf("❌ Failed to save %s: %v", s.Key, err)
		}
	})
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("❌ Failed to print: %v", err)
	}
}
