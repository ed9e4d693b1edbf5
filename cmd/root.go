package cmd

import (
	"os"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/logr/adapters/zap.v1"
	"github.com/spf13/cobra"
)

var (
	log     logr.Logger
	cfgFile string
	verbose bool

	configDefault = `# =============================================================================
# MONGOPHER - MongoDB to Google Drive Backup Configuration
# =============================================================================

server:
  port: 4321
  shared_secret: ""  #x-backup-secret header for /backup/manual and /backup/status
  cron_secret: ""    #Bearer token for /backup/scheduled

timezone: "Asia/Bangkok" #Ex: America/Sao_Paulo, UTC

mongo:
  uri: "mongodb://localhost:27017/app"
  database: "" #by default the database in the URI path

google:
  # Service account (JSON key) or OAuth refresh token. OAuth wins when both are set.
  service_account_key: ""
  oauth_client_id: ""
  oauth_client_secret: ""
  oauth_refresh_token: "" #mongopher auth
  oauth_redirect_uri: "http://127.0.0.1:53682/oauth2callback"
  folder_id: "" #parent folder, empty = My Drive root

backup:
  keep: 48
  timeout_minutes: 30
  scheduler_enabled: true
  poll_seconds: 60 #how often backup_cron_schedule is re-read

notification:
  success_enabled: false
  error_enabled: true
  emails:
    - "admin@example.com"
  email_from: "backup@example.com"
  smtp_server: ""
  smtp_port: 587
  smtp_user: ""
  smtp_password: "" #obscure password
  smtp_auth: "login"
  smtp_tls: true
  discord_webhook_url: "" #https://discord.com/api/webhooks/...
  telegram_bot_token: ""
  telegram_chat_id: ""

encryption_key: "" #age passphrase, files are uploaded as .json.age

run_on_startup: false
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mongopher",
	Short: "Automated MongoDB backups to Google Drive",
	Long: `mongopher exports the collections of a MongoDB database as Extended JSON
files into a new timestamped Google Drive folder, keeps the newest 48 folders and
deletes the rest.

  - Schedule read from the backup_cron_schedule setting, re-checked every minute
  - HTTP triggers for manual and external cron runs
  - Optional AGE encryption of every uploaded file
  - Success/error notifications (Discord, Telegram, Mail)

Examples:

  # Create a default mongopher.yaml
  mongopher init

  # Authorize a Google account and get a refresh token
  mongopher auth

  # Run one backup now
  mongopher backup

  # Start the daemon (scheduler + HTTP API)
  mongopher daemon -c /etc/mongopher/mongopher.yaml
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "INFO"
		if verbose {
			level = "DEBUG"
		}
		log = zap.New(
			zap.WithConsole(true),
			zap.WithConsoleLevel(level),
			zap.WithConsoleFormatter("TEXT"),
			zap.WithEnableCaller(false),
		)
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./mongopher.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
