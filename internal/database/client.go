package database

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BrunoTulio/logr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultDatabase = "test"

// Client is a lazily connected MongoDB handle shared by the whole process.
type Client struct {
	mu     sync.Mutex
	client *mongo.Client
	dbName string
	opt    *Options
	log    logr.Logger
}

func NewWithOptions(log logr.Logger, opts ...FnOptions) *Client {
	opt := &Options{ConnectTimeout: 10 * time.Second}
	for _, o := range opts {
		o(opt)
	}

	return &Client{
		client: opt.client,
		dbName: resolveDatabaseName(opt.URI, opt.Database),
		opt:    opt,
		log:    log,
	}
}

// Connect opens the connection once; later calls reuse it.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.connected(ctx)
	return err
}

// connected returns the live client, read under the lock so a concurrent
// Disconnect cannot swap it out mid-read.
func (c *Client) connected(ctx context.Context) (*mongo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	clientOpts := options.Client().
		ApplyURI(c.opt.URI).
		SetAppName("mongopher").
		SetConnectTimeout(c.opt.ConnectTimeout).
		SetServerSelectionTimeout(c.opt.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	c.client = client
	c.log.Infof("✅ Connected to MongoDB (database: %s)", c.dbName)

	return client, nil
}

func (c *Client) Name() string {
	return c.dbName
}

func (c *Client) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.connected(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.dbName), nil
}

func (c *Client) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// ListCollectionNames returns every collection of the database, sorted by name.
func (c *Client) ListCollectionNames(ctx context.Context) ([]string, error) {
	db, err := c.Database(ctx)
	if err != nil {
		return nil, err
	}

	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// FindAll reads a whole collection in natural order.
func (c *Client) FindAll(ctx context.Context, name string) ([]bson.D, error) {
	coll, err := c.Collection(ctx, name)
	if err != nil {
		return nil, err
	}

	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}

	docs := make([]bson.D, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return docs, nil
}

func (c *Client) Ping(ctx context.Context) error {
	client, err := c.connected(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}

func resolveDatabaseName(uri, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if uri == "" {
		return defaultDatabase
	}

	// Parsed by hand: the driver's parser resolves SRV records.
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return defaultDatabase
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return defaultDatabase
	}
	path, _, _ = strings.Cut(path, "?")
	name, err := url.PathUnescape(path)
	if err != nil || name == "" {
		return defaultDatabase
	}
	return name
}
