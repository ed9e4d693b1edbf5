package database

import (
	"context"
	"sync"
	"testing"

	"github.com/BrunoTulio/logr/adapters/zap.v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestResolveDatabaseName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		explicit string
		want     string
	}{
		{name: "explicit wins", uri: "mongodb://h/app", explicit: "other", want: "other"},
		{name: "path", uri: "mongodb://user:pw@h1:27017,h2:27017/app?replicaSet=rs0", want: "app"},
		{name: "srv path", uri: "mongodb+srv://cluster.example.com/shop?retryWrites=true", want: "shop"},
		{name: "escaped", uri: "mongodb://h/my%2Ddb", want: "my-db"},
		{name: "no path", uri: "mongodb://h:27017", want: defaultDatabase},
		{name: "empty path", uri: "mongodb://h/?ssl=true", want: defaultDatabase},
		{name: "empty uri", want: defaultDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveDatabaseName(tt.uri, tt.explicit))
		})
	}
}

func TestClientWithMockDeployment(t *testing.T) {
	log := zap.New(zap.WithConsole(true), zap.WithConsoleLevel("ERROR"))
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list collection names sorted", func(mt *mtest.T) {
		c := NewWithOptions(log, WithClient(mt.Client, "app"))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "app.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "users"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "orders"}, {Key: "type", Value: "collection"}},
		))

		names, err := c.ListCollectionNames(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"orders", "users"}, names)
	})

	mt.Run("find all keeps document order", func(mt *mtest.T) {
		c := NewWithOptions(log, WithClient(mt.Client, "app"))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "app.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: "ann"}},
			bson.D{{Key: "_id", Value: 2}, {Key: "name", Value: "bob"}},
		))

		docs, err := c.FindAll(context.Background(), "users")
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, "_id", docs[0][0].Key)
		assert.Equal(mt, "bob", docs[1][1].Value)
	})

	mt.Run("find error is wrapped", func(mt *mtest.T) {
		c := NewWithOptions(log, WithClient(mt.Client, "app"))
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := c.FindAll(context.Background(), "secrets")
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "find secrets")
	})
}

func TestDatabaseWhileDisconnecting(t *testing.T) {
	ctx := context.Background()
	// mongo.Connect does not dial, so no server is needed.
	driver, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)

	log := zap.New(zap.WithConsole(true), zap.WithConsoleLevel("ERROR"))
	c := NewWithOptions(log, WithClient(driver, "app"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// After Disconnect the reconnect fails on the empty URI; only a
			// handle or an error may come back.
			db, err := c.Database(ctx)
			if err == nil {
				assert.Equal(t, "app", db.Name())
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.Disconnect(ctx))
	}()
	wg.Wait()

	_, err = c.Database(ctx)
	assert.Error(t, err)
}
