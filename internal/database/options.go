package database

import (
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
)

type (
	FnOptions func(*Options)

	Options struct {
		URI            string
		Database       string        // empty = database from URI, then "test"
		ConnectTimeout time.Duration // also used as server selection timeout
		client         *mongo.Client
	}
)

func WithConfig(cfg config.MongoConfig) FnOptions {
	return func(opt *Options) {
		opt.URI = cfg.URI
		opt.Database = cfg.Database
	}
}

func WithConnectTimeout(d time.Duration) FnOptions {
	return func(opt *Options) {
		opt.ConnectTimeout = d
	}
}

// WithClient reuses an already connected driver client.
func WithClient(client *mongo.Client, database string) FnOptions {
	return func(opt *Options) {
		opt.client = client
		opt.Database = database
	}
}
