package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/BrunoTulio/logr"
)

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.validateMongo(); err != nil {
		return fmt.Errorf("mongo config: %w", err)
	}

	if err := c.validateTimezone(); err != nil {
		return fmt.Errorf("timezone config: %w", err)
	}

	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.validateGoogle(); err != nil {
		return fmt.Errorf("google config: %w", err)
	}

	if err := c.validateBackup(); err != nil {
		return fmt.Errorf("backup config: %w", err)
	}

	if err := c.validateNotification(); err != nil {
		return fmt.Errorf("notify config: %w", err)
	}

	return nil
}

func (c *Config) validateMongo() error {
	uri := strings.TrimSpace(c.Mongo.URI)
	if uri == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return fmt.Errorf("MONGODB_URI must start with mongodb:// or mongodb+srv://")
	}

	if c.Mongo.Database != "" && !isValidMongoName(c.Mongo.Database) {
		return fmt.Errorf("MONGODB_DATABASE contains invalid characters: %s", c.Mongo.Database)
	}

	return nil
}

// validateTimezone checks if the timezone is valid
func (c *Config) validateTimezone() error {
	if c.Timezone == "" {
		return fmt.Errorf("timezone cannot be empty")
	}

	_, err := c.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.SharedSecret == "" {
		logr.Warn("BACKUP_SHARED_SECRET is empty - /backup/manual and /backup/status are unauthenticated")
	}

	return nil
}

// validateGoogle only checks the shape of what is present; credentials may
// still come from the settings collection at run time.
func (c *Config) validateGoogle() error {
	g := c.Google

	if g.HasServiceAccount() {
		var key struct {
			Type        string `json:"type"`
			ClientEmail string `json:"client_email"`
			PrivateKey  string `json:"private_key"`
		}
		if err := json.Unmarshal([]byte(g.ServiceAccountKey), &key); err != nil {
			return fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_KEY must be a JSON object: %w", err)
		}
		if key.Type != "service_account" {
			return fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_KEY must have type=service_account, got '%s'", key.Type)
		}
		if key.ClientEmail == "" || key.PrivateKey == "" {
			logr.Warn("GOOGLE_SERVICE_ACCOUNT_KEY may be missing client_email or private_key")
		}
	}

	set := 0
	for _, v := range []string{g.OAuthClientID, g.OAuthClientSecret, g.OAuthRefreshToken} {
		if v != "" {
			set++
		}
	}
	if set > 0 && set < 3 {
		logr.Warnf("Only %d of 3 GOOGLE_OAUTH_* values set, env OAuth credentials will be ignored", set)
	}

	if g.OAuthRedirectURI != "" {
		u, err := url.Parse(g.OAuthRedirectURI)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("GOOGLE_OAUTH_REDIRECT_URI must be an absolute http(s) URL, got '%s'", g.OAuthRedirectURI)
		}
	}

	return nil
}

func (c *Config) validateBackup() error {
	b := c.Backup

	if b.Keep < 1 {
		return fmt.Errorf("BACKUP_KEEP must be >= 1, got %d", b.Keep)
	}

	if b.TimeoutMinutes < 1 {
		return fmt.Errorf("BACKUP_TIMEOUT must be >= 1 minute, got %d", b.TimeoutMinutes)
	}

	if b.PollSeconds < 1 {
		return fmt.Errorf("SCHEDULER_POLL_SECONDS must be >= 1, got %d", b.PollSeconds)
	}

	if b.Keep > 500 {
		logr.Warnf("BACKUP_KEEP is very high (%d folders). Are you sure?", b.Keep)
	}

	return nil
}

// validateNotification validate notify settings
func (c *Config) validateNotification() error {
	notif := c.Notification

	if !notif.IsMails() && notif.DiscordWebhookURL == "" && notif.TelegramBotToken == "" {
		return nil
	}

	if notif.IsMails() {
		for _, email := range notif.Emails {
			if !isValidEmail(email) {
				return fmt.Errorf("NOTIFICATION_EMAIL has invalid format: %s", email)
			}
		}

		if notif.SMTPServer == "" {
			return fmt.Errorf("SMTP_SERVER is required when NOTIFICATION_EMAIL is set")
		}

		if notif.SMTPPort < 1 || notif.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", notif.SMTPPort)
		}

		validSMTPPorts := map[int]bool{25: true, 465: true, 587: true, 2525: true}
		if !validSMTPPorts[notif.SMTPPort] {
			logr.Warnf("SMTP_PORT=%d is unusual. Common ports are 25, 465, 587, 2525", notif.SMTPPort)
		}

		if notif.EmailFrom != "" && !isValidEmail(notif.EmailFrom) {
			return fmt.Errorf("NOTIFICATION_EMAIL_FROM has invalid format: %s", notif.EmailFrom)
		}

		validAuthMethods := map[string]bool{"login": true, "plain": true, "cram-md5": true, "none": true}
		if !validAuthMethods[strings.ToLower(notif.SMTPAuth)] {
			return fmt.Errorf("SMTP_AUTH_METHOD must be one of: login, plain, cram-md5, none, got '%s'", notif.SMTPAuth)
		}
	}

	if notif.DiscordWebhookURL != "" {
		if !strings.HasPrefix(notif.DiscordWebhookURL, "http://") && !strings.HasPrefix(notif.DiscordWebhookURL, "https://") {
			return fmt.Errorf("DISCORD_WEBHOOK_URL must start with http:// or https://")
		}
	}

	if notif.TelegramBotToken != "" && notif.TelegramChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}

// isValidMongoName rejects characters MongoDB forbids in database names
func isValidMongoName(name string) bool {
	if len(name) > 63 {
		return false
	}
	return !strings.ContainsAny(name, `/\. "$*<>:|?`)
}

// isValidEmail validate email format
func isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
