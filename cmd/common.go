package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BrunoTulio/mongopher/internal/backup"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/database"
	"github.com/BrunoTulio/mongopher/internal/drive"
	"github.com/BrunoTulio/mongopher/internal/job"
	"github.com/BrunoTulio/mongopher/internal/lock"
	"github.com/BrunoTulio/mongopher/internal/notify"
	"github.com/BrunoTulio/mongopher/internal/retention"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/BrunoTulio/mongopher/internal/utils"
	"github.com/joho/godotenv"
)

const (
	timeFormat     = "2006-01-02 15:04:05"
	connectTimeout = 10 * time.Second
)

type services struct {
	cfg       *config.Config
	db        *database.Client
	settings  *settings.Store
	connector *drive.Connector
	notifier  notify.Notifier
	runner    *job.Runner
}

func loadEnvIfExists() {
	envFile := ".env"

	if _, err := os.Stat(envFile); err != nil {
		return
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("⚠️  Failed to load .env: %v", err)
		return
	}

	log.Info("🔧 Loaded .env file (development mode)")
}

func loadConfigOrFail() (*config.Config, error) {
	if cfgFile == "" {
		cfgFile = "./mongopher.yaml"
	}

	if utils.FileExists(cfgFile) {
		cfg, err := config.LoadFromYAML(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load YAML config: %w", err)
		}
		utils.InitTimezone(cfg.MustLocation(), timeFormat)

		return cfg, nil
	}
	log.Info("📄 Config file not found, using environment variables")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config from ENV: %w", err)
	}

	utils.InitTimezone(cfg.MustLocation(), timeFormat)

	return cfg, nil
}

// mustConfig loads .env and the config, exiting on failure.
func mustConfig() *config.Config {
	loadEnvIfExists()

	cfg, err := loadConfigOrFail()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return cfg
}

func newDatabase(cfg *config.Config) *database.Client {
	return database.NewWithOptions(log,
		database.WithConfig(cfg.Mongo),
		database.WithConnectTimeout(connectTimeout),
	)
}

func newConnector(cfg *config.Config, store *settings.Store) *drive.Connector {
	return drive.NewConnector(log,
		drive.WithConfig(cfg.Google),
		drive.WithSettings(store),
	)
}

// newServices wires the backup pipeline. Extra exporter options (progress
// reporting) are appended after the config.
func newServices(cfg *config.Config, exporterOpts ...backup.FnOptions) *services {
	db := newDatabase(cfg)
	store := settings.NewStore(db, log)
	connector := newConnector(cfg, store)
	notifier := notify.NewFromConfig(cfg, log)

	opts := append([]backup.FnOptions{
		backup.WithConfig(cfg),
		backup.WithSettings(store),
	}, exporterOpts...)

	exporter := backup.NewExporter(log, db, backupOpener(connector), opts...)
	sweeper := retention.NewDrive(log, retentionOpener(connector))

	runner := job.NewRunner(log, exporter, sweeper, notifier, lock.New(), job.WithConfig(cfg))

	return &services{
		cfg:       cfg,
		db:        db,
		settings:  store,
		connector: connector,
		notifier:  notifier,
		runner:    runner,
	}
}

func (s *services) close() {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := s.db.Disconnect(ctx); err != nil {
		log.Warnf("⚠️  Failed to disconnect from MongoDB: %v", err)
	}
}

// The openers return an untyped nil on error so callers never see a
// non-nil interface wrapping a nil *drive.Client.
func backupOpener(c *drive.Connector) backup.Opener {
	return func(ctx context.Context) (backup.Remote, error) {
		client, err := c.Open(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func retentionOpener(c *drive.Connector) retention.Opener {
	return func(ctx context.Context) (retention.Remote, error) {
		client, err := c.Open(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// connectOrFail connects the database with a short timeout, exiting on failure.
func connectOrFail(db *database.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	log.Info("Testing database connection...")
	if err := db.Connect(ctx); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Info("✅ Database connection successful")
}
