package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BrunoTulio/logr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is shared with the application that owns the settings.
const CollectionName = "systemsettings"

const defaultUpdatedBy = "admin"

type (
	Collections interface {
		Collection(ctx context.Context, name string) (*mongo.Collection, error)
	}

	Reader interface {
		Get(ctx context.Context, key string) (Value, error)
	}

	Setting struct {
		Key         string    `bson:"key" json:"key"`
		Value       any       `bson:"value" json:"value"`
		Description string    `bson:"description,omitempty" json:"description,omitempty"`
		Category    string    `bson:"category" json:"category"`
		UpdatedBy   string    `bson:"updatedBy" json:"updatedBy"`
		CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
		UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	}

	Store struct {
		db  Collections
		log logr.Logger
		now func() time.Time
	}
)

func NewStore(db Collections, log logr.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// Get returns Null for a missing key.
func (s *Store) Get(ctx context.Context, key string) (Value, error) {
	coll, err := s.db.Collection(ctx, CollectionName)
	if err != nil {
		return Null(), err
	}

	var doc Setting
	err = coll.FindOne(ctx, bson.D{{Key: "key", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Null(), nil
	}
	if err != nil {
		return Null(), fmt.Errorf("get setting %s: %w", key, err)
	}

	v := FromAny(doc.Value)
	if v.Kind() == KindUnsupported {
		s.log.Warnf("⚠️  Setting %s has an unsupported value type, using default", key)
	}
	return v, nil
}

// Set upserts a setting by key.
func (s *Store) Set(ctx context.Context, setting Setting) error {
	setting.Key = strings.TrimSpace(setting.Key)
	if setting.Key == "" {
		return errors.New("setting key is required")
	}
	if setting.Category == "" {
		setting.Category = CategoryGeneral
	}
	if !IsCategory(setting.Category) {
		return fmt.Errorf("invalid category %q", setting.Category)
	}
	if setting.UpdatedBy == "" {
		setting.UpdatedBy = defaultUpdatedBy
	}

	coll, err := s.db.Collection(ctx, CollectionName)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	set := bson.D{
		{Key: "value", Value: setting.Value},
		{Key: "category", Value: setting.Category},
		{Key: "updatedBy", Value: setting.UpdatedBy},
		{Key: "updatedAt", Value: now},
	}
	if setting.Description != "" {
		set = append(set, bson.E{Key: "description", Value: setting.Description})
	}

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}

	res, err := coll.UpdateOne(ctx, bson.D{{Key: "key", Value: setting.Key}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set setting %s: %w", setting.Key, err)
	}

	if res.UpsertedCount > 0 {
		s.log.Infof("➕ Created setting %s", setting.Key)
	} else {
		s.log.Infof("✏️  Updated setting %s", setting.Key)
	}

	return nil
}

// List returns settings of one category, or all when category is empty.
func (s *Store) List(ctx context.Context, category string) ([]Setting, error) {
	coll, err := s.db.Collection(ctx, CollectionName)
	if err != nil {
		return nil, err
	}

	filter := bson.D{}
	if category != "" {
		filter = bson.D{{Key: "category", Value: category}}
	}

	cur, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	out := make([]Setting, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return out, nil
}
