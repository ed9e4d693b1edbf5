package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/BrunoTulio/mongopher/internal/auth"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/spf13/cobra"
)

var (
	authClientID     string
	authClientSecret string
	authRedirectURI  string
	authSave         bool
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize a Google account and obtain a Drive refresh token",
	Long: `Start the OAuth2 flow to let mongopher upload backups as a Google user.

This command prints a consent URL and waits for the callback on the redirect
URI (default http://127.0.0.1:53682/oauth2callback). Once the flow completes,
the refresh token is printed. Store it in GOOGLE_OAUTH_REFRESH_TOKEN or, with
--save, in the backup_google_oauth_* settings together with the client id and
secret.

The OAuth client (Desktop or Web app in Google Cloud Console) must list the
redirect URI as an authorized redirect.

Examples:
  mongopher auth
  mongopher auth --client-id xxx.apps.googleusercontent.com --client-secret yyy
  mongopher auth --save`,
	Args: cobra.NoArgs,
	Run:  runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().StringVar(&authClientID, "client-id", "", "OAuth client id (default: google.oauth_client_id)")
	authCmd.Flags().StringVar(&authClientSecret, "client-secret", "", "OAuth client secret (default: google.oauth_client_secret)")
	authCmd.Flags().StringVar(&authRedirectURI, "redirect-uri", "", "redirect URI (default: google.oauth_redirect_uri)")
	authCmd.Flags().BoolVar(&authSave, "save", false, "store client id, secret and refresh token in the settings collection")
}

func runAuth(cmd *cobra.Command, args []string) {
	cfg := mustConfig()

	opts := []auth.FnOptions{auth.WithConfig(cfg.Google)}
	if authClientID != "" || authClientSecret != "" {
		opts = append(opts, auth.WithClient(authClientID, authClientSecret))
	}
	if authRedirectURI != "" {
		opts = append(opts, auth.WithRedirectURI(authRedirectURI))
	}
	a := auth.New(log, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	token, err := a.Run(ctx)
	if err != nil {
		log.Fatalf("authentication failed: %v", err)
	}

	fmt.Println("\n✅ Authentication successful!")
	fmt.Println("\n🔐 Refresh token:")
	fmt.Println(token.RefreshToken)

	if !authSave {
		fmt.Println("\n💡 Usage:")
		fmt.Println("   export GOOGLE_OAUTH_REFRESH_TOKEN=\"<refresh token>\"")
		fmt.Printf("   or store it under the %s setting (mongopher auth --save)\n", settings.KeyOAuthRefreshToken)
		return
	}

	clientID, clientSecret := cfg.Google.OAuthClientID, cfg.Google.OAuthClientSecret
	if authClientID != "" || authClientSecret != "" {
		clientID, clientSecret = authClientID, authClientSecret
	}

	withStore(func(ctx context.Context, store *settings.Store) {
		for _, s := range []settings.Setting{
			{Key: settings.KeyOAuthClientID, Value: clientID, Description: "Google OAuth client id for backups"},
			{Key: settings.KeyOAuthClientSecret, Value: clientSecret, Description: "Google OAuth client secret for backups"},
			{Key: settings.KeyOAuthRefreshToken, Value: token.RefreshToken, Description: "Google OAuth refresh token for backups"},
		} {
			s.Category = settings.CategoryBackup
			if err := store.Set(ctx, s); err != nil {
				log.Fatalf("❌ Failed to save %s: %v", s.Key, err)
			}
		}
	})

	fmt.Println("\n💾 Credentials saved to the settings collection")
}
