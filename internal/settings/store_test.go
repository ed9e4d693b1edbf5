package settings

import (
	"context"
	"testing"
	"time"

	"github.com/BrunoTulio/logr/adapters/zap.v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type fixedCollection struct {
	coll *mongo.Collection
}

func (f fixedCollection) Collection(context.Context, string) (*mongo.Collection, error) {
	return f.coll, nil
}

func newTestStore(mt *mtest.T) *Store {
	log := zap.New(zap.WithConsole(true), zap.WithConsoleLevel("ERROR"))
	s := NewStore(fixedCollection{coll: mt.Coll}, log)
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := mtest.TestDb + "." + CollectionName

	mt.Run("get existing list", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "key", Value: KeySelectedCollections},
			{Key: "value", Value: bson.A{"users", "orders"}},
			{Key: "category", Value: CategoryBackup},
		}))

		v, err := s.Get(context.Background(), KeySelectedCollections)
		require.NoError(mt, err)
		assert.Equal(mt, KindStringList, v.Kind())
		assert.Equal(mt, []string{"users", "orders"}, v.StringsOr(nil))
	})

	mt.Run("get missing is null", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		v, err := s.Get(context.Background(), KeyCronSchedule)
		require.NoError(mt, err)
		assert.True(mt, v.IsNull())
	})

	mt.Run("get command error", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Name: "InterruptedAtShutdown", Message: "shutdown"}))

		_, err := s.Get(context.Background(), KeyCronSchedule)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), KeyCronSchedule)
	})

	mt.Run("set upserts by key", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: primitive.NewObjectID()}}}},
		))

		err := s.Set(context.Background(), Setting{
			Key:      KeyCronSchedule,
			Value:    "*/15 * * * *",
			Category: CategoryBackup,
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)

		updates := evt.Command.Lookup("updates").Array()
		first, err := updates.IndexErr(0)
		require.NoError(mt, err)
		stmt := first.Value().Document()
		assert.True(mt, stmt.Lookup("upsert").Boolean())
		assert.Equal(mt, KeyCronSchedule, stmt.Lookup("q", "key").StringValue())
		assert.Equal(mt, "admin", stmt.Lookup("u", "$set", "updatedBy").StringValue())
	})

	mt.Run("list by category", func(mt *mtest.T) {
		s := newTestStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "key", Value: KeyCronSchedule}, {Key: "value", Value: "0 * * * *"}, {Key: "category", Value: CategoryBackup}},
			bson.D{{Key: "key", Value: KeyDriveFolderID}, {Key: "value", Value: "abc"}, {Key: "category", Value: CategoryBackup}},
		))

		out, err := s.List(context.Background(), CategoryBackup)
		require.NoError(mt, err)
		require.Len(mt, out, 2)
		assert.Equal(mt, KeyDriveFolderID, out[1].Key)
	})
}

func TestStoreSetRejectsBadInput(t *testing.T) {
	log := zap.New(zap.WithConsole(true), zap.WithConsoleLevel("ERROR"))
	s := NewStore(fixedCollection{}, log)

	assert.Error(t, s.Set(context.Background(), Setting{Key: "  "}))
	assert.Error(t, s.Set(context.Background(), Setting{Key: "k", Category: "nope"}))
}
