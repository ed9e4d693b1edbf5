package config

import (
	"fmt"
	"os"

	"github.com/BrunoTulio/mongopher/internal/utils"
	"gopkg.in/yaml.v3"
)

func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	loadEnvOverrides(cfg)

	if err := revealSecrets(cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Timezone:      stringOrEmpty("TZ", DefaultTimezone),
		RunOnStartup:  boolOrEmpty("RUN_ON_STARTUP", false),
		EncryptionKey: stringOrEmpty("BACKUP_ENCRYPTION_KEY", ""),
	}

	cfg.Server = Server{
		Port:         intOrEmpty("PORT", DefaultPort),
		SharedSecret: stringOrEmpty("BACKUP_SHARED_SECRET", ""),
		CronSecret:   stringOrEmpty("CRON_SECRET", ""),
	}

	cfg.Mongo = MongoConfig{
		URI:      stringOrEmpty("MONGODB_URI", ""),
		Database: stringOrEmpty("MONGODB_DATABASE", ""),
	}

	cfg.Google = GoogleConfig{
		ServiceAccountKey: stringOrEmpty("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		OAuthClientID:     stringOrEmpty("GOOGLE_OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: stringOrEmpty("GOOGLE_OAUTH_CLIENT_SECRET", ""),
		OAuthRefreshToken: stringOrEmpty("GOOGLE_OAUTH_REFRESH_TOKEN", ""),
		OAuthRedirectURI:  stringOrEmpty("GOOGLE_OAUTH_REDIRECT_URI", DefaultRedirectURI),
		FolderID:          stringOrEmpty("GOOGLE_DRIVE_BACKUP_FOLDER_ID", ""),
	}

	cfg.Backup = BackupConfig{
		Keep:             intOrEmpty("BACKUP_KEEP", DefaultKeep),
		TimeoutMinutes:   intOrEmpty("BACKUP_TIMEOUT", DefaultTimeout),
		SchedulerEnabled: boolOrEmpty("SCHEDULER_ENABLED", true),
		PollSeconds:      intOrEmpty("SCHEDULER_POLL_SECONDS", DefaultPollSeconds),
	}

	cfg.Notification = NotificationConfig{
		SuccessEnabled:    boolOrEmpty("NOTIFICATION_SUCCESS_ENABLED", false),
		ErrorEnabled:      boolOrEmpty("NOTIFICATION_ERROR_ENABLED", false),
		Emails:            stringsOrEmpty("NOTIFICATION_EMAIL", []string{}),
		EmailFrom:         stringOrEmpty("NOTIFICATION_EMAIL_FROM", ""),
		SMTPServer:        stringOrEmpty("SMTP_SERVER", ""),
		SMTPPort:          intOrEmpty("SMTP_PORT", 587),
		SMTPUser:          stringOrEmpty("SMTP_USER", ""),
		SMTPPassword:      stringOrEmpty("SMTP_PASSWORD", ""),
		SMTPAuth:          stringOrEmpty("SMTP_AUTH_METHOD", "login"),
		SMTPTLS:           boolOrEmpty("SMTP_TLS", true),
		DiscordWebhookURL: stringOrEmpty("DISCORD_WEBHOOK_URL", ""),
		TelegramBotToken:  stringOrEmpty("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:    stringOrEmpty("TELEGRAM_CHAT_ID", ""),
	}

	if err := revealSecrets(cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func loadEnvOverrides(cfg *Config) {
	if timezone, ok := stringLookup("TZ"); ok {
		cfg.Timezone = timezone
	}
	if runOnStartup, ok := boolLookup("RUN_ON_STARTUP"); ok {
		cfg.RunOnStartup = runOnStartup
	}
	if encryptionKey, ok := stringLookup("BACKUP_ENCRYPTION_KEY"); ok {
		cfg.EncryptionKey = encryptionKey
	}

	if port, ok := intLookup("PORT"); ok {
		cfg.Server.Port = port
	}
	if sharedSecret, ok := stringLookup("BACKUP_SHARED_SECRET"); ok {
		cfg.Server.SharedSecret = sharedSecret
	}
	if cronSecret, ok := stringLookup("CRON_SECRET"); ok {
		cfg.Server.CronSecret = cronSecret
	}

	if uri, ok := stringLookup("MONGODB_URI"); ok {
		cfg.Mongo.URI = uri
	}
	if database, ok := stringLookup("MONGODB_DATABASE"); ok {
		cfg.Mongo.Database = database
	}

	if key, ok := stringLookup("GOOGLE_SERVICE_ACCOUNT_KEY"); ok {
		cfg.Google.ServiceAccountKey = key
	}
	if clientID, ok := stringLookup("GOOGLE_OAUTH_CLIENT_ID"); ok {
		cfg.Google.OAuthClientID = clientID
	}
	if clientSecret, ok := stringLookup("GOOGLE_OAUTH_CLIENT_SECRET"); ok {
		cfg.Google.OAuthClientSecret = clientSecret
	}
	if refreshToken, ok := stringLookup("GOOGLE_OAUTH_REFRESH_TOKEN"); ok {
		cfg.Google.OAuthRefreshToken = refreshToken
	}
	if redirectURI, ok := stringLookup("GOOGLE_OAUTH_REDIRECT_URI"); ok {
		cfg.Google.OAuthRedirectURI = redirectURI
	}
	if folderID, ok := stringLookup("GOOGLE_DRIVE_BACKUP_FOLDER_ID"); ok {
		cfg.Google.FolderID = folderID
	}

	if keep, ok := intLookup("BACKUP_KEEP"); ok {
		cfg.Backup.Keep = keep
	}
	if timeout, ok := intLookup("BACKUP_TIMEOUT"); ok {
		cfg.Backup.TimeoutMinutes = timeout
	}
	if enabled, ok := boolLookup("SCHEDULER_ENABLED"); ok {
		cfg.Backup.SchedulerEnabled = enabled
	}
	if poll, ok := intLookup("SCHEDULER_POLL_SECONDS"); ok {
		cfg.Backup.PollSeconds = poll
	}

	if notificationSuccessEnabled, ok := boolLookup("NOTIFICATION_SUCCESS_ENABLED"); ok {
		cfg.Notification.SuccessEnabled = notificationSuccessEnabled
	}
	if notificationErrorEnabled, ok := boolLookup("NOTIFICATION_ERROR_ENABLED"); ok {
		cfg.Notification.ErrorEnabled = notificationErrorEnabled
	}
	if notificationEmails, ok := stringsLookup("NOTIFICATION_EMAIL"); ok {
		cfg.Notification.Emails = notificationEmails
	}
	if notificationEmailFrom, ok := stringLookup("NOTIFICATION_EMAIL_FROM"); ok {
		cfg.Notification.EmailFrom = notificationEmailFrom
	}
	if smtpServer, ok := stringLookup("SMTP_SERVER"); ok {
		cfg.Notification.SMTPServer = smtpServer
	}
	if smtpPort, ok := intLookup("SMTP_PORT"); ok {
		cfg.Notification.SMTPPort = smtpPort
	}
	if smtpUser, ok := stringLookup("SMTP_USER"); ok {
		cfg.Notification.SMTPUser = smtpUser
	}
	if smtpPassword, ok := stringLookup("SMTP_PASSWORD"); ok {
		cfg.Notification.SMTPPassword = smtpPassword
	}
	if smtpAuthMethod, ok := stringLookup("SMTP_AUTH_METHOD"); ok {
		cfg.Notification.SMTPAuth = smtpAuthMethod
	}
	if smtpTLS, ok := boolLookup("SMTP_TLS"); ok {
		cfg.Notification.SMTPTLS = smtpTLS
	}
	if discordWebhookURL, ok := stringLookup("DISCORD_WEBHOOK_URL"); ok {
		cfg.Notification.DiscordWebhookURL = discordWebhookURL
	}
	if telegramBotToken, ok := stringLookup("TELEGRAM_BOT_TOKEN"); ok {
		cfg.Notification.TelegramBotToken = telegramBotToken
	}
	if telegramChatID, ok := stringLookup("TELEGRAM_CHAT_ID"); ok {
		cfg.Notification.TelegramChatID = telegramChatID
	}
}

// revealSecrets turns values produced by `mongopher obscure` back into plaintext.
func revealSecrets(cfg *Config) error {
	secrets := map[string]*string{
		"MONGODB_URI":                &cfg.Mongo.URI,
		"GOOGLE_OAUTH_CLIENT_SECRET": &cfg.Google.OAuthClientSecret,
		"GOOGLE_OAUTH_REFRESH_TOKEN": &cfg.Google.OAuthRefreshToken,
		"BACKUP_SHARED_SECRET":       &cfg.Server.SharedSecret,
		"CRON_SECRET":                &cfg.Server.CronSecret,
		"BACKUP_ENCRYPTION_KEY":      &cfg.EncryptionKey,
		"SMTP_PASSWORD":              &cfg.Notification.SMTPPassword,
	}

	for name, value := range secrets {
		plain, err := utils.Reveal(*value)
		if err != nil {
			return fmt.Errorf("reveal %s: %w", name, err)
		}
		*value = plain
	}

	cfg.Google.ServiceAccountKey = utils.DecodeJSONKey(cfg.Google.ServiceAccountKey)

	return nil
}
