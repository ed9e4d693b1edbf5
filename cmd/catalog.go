package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/BrunoTulio/mongopher/internal/catalog"
	"github.com/BrunoTulio/mongopher/internal/drive"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/BrunoTulio/mongopher/internal/utils"
	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List backup folders stored in Google Drive",
	Long: `List the backup folders under the configured Drive parent folder,
newest first, with their ids and ages. Folders beyond the retention count are
marked and will be deleted after the next successful backup.

Examples:
  mongopher catalog
  mongopher catalog -c /etc/mongopher/mongopher.yaml`,
	Args: cobra.NoArgs,
	Run:  runCatalog,
}

var catalogJSON bool

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "print as JSON")
}

func runCatalog(cmd *cobra.Command, args []string) {
	cfg := mustConfig()
	db := newDatabase(cfg)
	defer func() {
		_ = db.Disconnect(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Credentials may live in the settings store; without MongoDB only env is used.
	connector := drive.NewConnector(log, drive.WithConfig(cfg.Google))
	if err := db.Connect(ctx); err != nil {
		log.Warnf("⚠️  MongoDB unavailable, using environment credentials only: %v", err)
	} else {
		connector = newConnector(cfg, settings.NewStore(db, log))
	}

	c := catalog.NewWithOptions(log, catalogOpener(connector), catalog.WithConfig(cfg))
	listing, err := c.List(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to list backups: %v", err)
	}

	if catalogJSON {
		printJSON(listing)
		return
	}

	if len(listing.Entries) == 0 {
		fmt.Println("No backups found")
		return
	}

	fmt.Printf("📁 Parent: %s\n", listing.ParentID)
	if listing.DriveID != "" {
		fmt.Printf("🗄️  Shared drive: %s\n", listing.DriveID)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tID\tCREATED\tAGE\t")
	for _, e := range listing.Entries {
		mark := ""
		if e.Expired {
			mark = "expired"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Index, e.Name, e.ID, utils.FormatTime(e.Created), e.Age, mark)
	}
	_ = w.Flush()

	fmt.Printf("\n%d backups, keeping %d\n", len(listing.Entries), listing.Keep)
}

func catalogOpener(c *drive.Connector) catalog.Opener {
	return func(ctx context.Context) (catalog.Remote, error) {
		client, err := c.Open(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
