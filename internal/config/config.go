package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server        Server             `yaml:"server"`
	Timezone      string             `yaml:"timezone"`
	Mongo         MongoConfig        `yaml:"mongo"`
	Google        GoogleConfig       `yaml:"google"`
	Backup        BackupConfig       `yaml:"backup"`
	Notification  NotificationConfig `yaml:"notification"`
	EncryptionKey string             `yaml:"encryption_key"`
	RunOnStartup  bool               `yaml:"run_on_startup"`
}

type Server struct {
	Port int `yaml:"port"`
	// SharedSecret protects /backup/manual and /backup/status. Empty disables the check.
	SharedSecret string `yaml:"shared_secret"`
	// CronSecret is the bearer token expected by /backup/scheduled.
	CronSecret string `yaml:"cron_secret"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"` // empty = database from the URI path
}

type GoogleConfig struct {
	ServiceAccountKey string `yaml:"service_account_key"` // JSON
	OAuthClientID     string `yaml:"oauth_client_id"`
	OAuthClientSecret string `yaml:"oauth_client_secret"`
	OAuthRefreshToken string `yaml:"oauth_refresh_token"`
	OAuthRedirectURI  string `yaml:"oauth_redirect_uri"`
	FolderID          string `yaml:"folder_id"`
}

type BackupConfig struct {
	Keep             int  `yaml:"keep"`
	TimeoutMinutes   int  `yaml:"timeout_minutes"`
	SchedulerEnabled bool `yaml:"scheduler_enabled"`
	PollSeconds      int  `yaml:"poll_seconds"`
}

type NotificationConfig struct {
	SuccessEnabled bool `yaml:"success_enabled"`
	ErrorEnabled   bool `yaml:"error_enabled"`

	Emails       []string `yaml:"emails"`
	EmailFrom    string   `yaml:"email_from"`
	SMTPServer   string   `yaml:"smtp_server"`
	SMTPPort     int      `yaml:"smtp_port"`
	SMTPUser     string   `yaml:"smtp_user"`
	SMTPPassword string   `yaml:"smtp_password"`
	SMTPAuth     string   `yaml:"smtp_auth"`
	SMTPTLS      bool     `yaml:"smtp_tls"`

	DiscordWebhookURL string `yaml:"discord_webhook_url"`

	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   string `yaml:"telegram_chat_id"`
}

const (
	DefaultPort        = 4321
	DefaultKeep        = 48
	DefaultTimezone    = "Asia/Bangkok"
	DefaultRedirectURI = "http://127.0.0.1:53682/oauth2callback"
	DefaultTimeout     = 30
	DefaultPollSeconds = 60
)

// Default returns a Config populated with every default value.
func Default() *Config {
	return &Config{
		Server:   Server{Port: DefaultPort},
		Timezone: DefaultTimezone,
		Google:   GoogleConfig{OAuthRedirectURI: DefaultRedirectURI},
		Backup: BackupConfig{
			Keep:             DefaultKeep,
			TimeoutMinutes:   DefaultTimeout,
			SchedulerEnabled: true,
			PollSeconds:      DefaultPollSeconds,
		},
		Notification: NotificationConfig{
			SMTPPort: 587,
			SMTPAuth: "login",
			SMTPTLS:  true,
		},
	}
}

func (c *Config) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) MustLocation() *time.Location {
	loc, err := c.GetLocation()

	if err != nil {
		panic(err)
	}
	return loc
}

func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

func (b BackupConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutMinutes) * time.Minute
}

func (b BackupConfig) PollInterval() time.Duration {
	return time.Duration(b.PollSeconds) * time.Second
}

func (g GoogleConfig) HasOAuth() bool {
	return g.OAuthClientID != "" && g.OAuthClientSecret != "" && g.OAuthRefreshToken != ""
}

func (g GoogleConfig) HasServiceAccount() bool {
	return g.ServiceAccountKey != ""
}

func (c *Config) IsEncryptEnabled() bool {
	return c.EncryptionKey != ""
}

func (c *Config) IsNotifyMail() bool {
	return c.Notification.IsMails()
}

func (c *Config) IsNotifyDiscord() bool {
	return c.Notification.DiscordWebhookURL != ""
}

func (c *Config) IsNotifyTelegram() bool {
	return c.Notification.TelegramBotToken != ""
}

func (c *NotificationConfig) IsMails() bool {
	return len(c.Emails) > 0
}
