package drive

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/BrunoTulio/logr/adapters/zap.v1"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const (
	filesURL  = "https://www.googleapis.com/drive/v3/files"
	uploadURL = "https://www.googleapis.com/upload/drive/v3/files"
)

type memSettings map[string]settings.Value

func (m memSettings) Get(_ context.Context, key string) (settings.Value, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return settings.Null(), nil
}

type failingSettings struct{}

func (failingSettings) Get(context.Context, string) (settings.Value, error) {
	return settings.Value{}, errors.New("connection refused")
}

var envOAuth = config.GoogleConfig{
	OAuthClientID:     "env-id",
	OAuthClientSecret: "env-secret",
	OAuthRefreshToken: "env-token",
}

func newConnector(t *testing.T, transport http.RoundTripper, opts ...FnOptions) *Connector {
	t.Helper()
	log := zap.New(zap.WithConsole(true), zap.WithConsoleLevel("ERROR"))
	opts = append(opts, WithClientOptions(option.WithHTTPClient(&http.Client{Transport: transport})))
	return NewConnector(log, opts...)
}

func TestResolvePrecedence(t *testing.T) {
	stored := memSettings{
		settings.KeyOAuthClientID:     settings.String("db-id"),
		settings.KeyOAuthClientSecret: settings.String("db-secret"),
		settings.KeyOAuthRefreshToken: settings.String("db-token"),
		settings.KeyDriveFolderID:     settings.String(" db-folder "),
	}

	tests := []struct {
		name       string
		google     config.GoogleConfig
		store      SettingsReader
		wantID     string
		wantFolder string
		wantSource ConfigSource
	}{
		{
			name:       "env wins over db",
			google:     config.GoogleConfig{OAuthClientID: "env-id", OAuthClientSecret: "env-secret", OAuthRefreshToken: "env-token", FolderID: "env-folder"},
			store:      stored,
			wantID:     "env-id",
			wantFolder: "env-folder",
			wantSource: ConfigSource{OAuth: SourceEnv, Folder: SourceEnv},
		},
		{
			name:       "db used when env triple incomplete",
			google:     config.GoogleConfig{OAuthClientID: "env-id"},
			store:      stored,
			wantID:     "db-id",
			wantFolder: "db-folder",
			wantSource: ConfigSource{OAuth: SourceDB, Folder: SourceDB},
		},
		{
			name:       "nothing configured",
			store:      memSettings{},
			wantSource: ConfigSource{OAuth: SourceNone, Folder: SourceNone},
		},
		{
			name:       "store errors are tolerated",
			google:     config.GoogleConfig{FolderID: "env-folder"},
			store:      failingSettings{},
			wantFolder: "env-folder",
			wantSource: ConfigSource{OAuth: SourceNone, Folder: SourceEnv},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConnector(t, httpmock.NewMockTransport(), WithConfig(tt.google), WithSettings(tt.store))
			creds := c.Resolve(context.Background())

			assert.Equal(t, tt.wantID, creds.ClientID)
			assert.Equal(t, tt.wantFolder, creds.FolderID)
			assert.Equal(t, tt.wantSource, creds.Source)
		})
	}
}

func TestOpenWithoutAuth(t *testing.T) {
	c := newConnector(t, httpmock.NewMockTransport(), WithSettings(memSettings{}))

	_, err := c.Open(context.Background())
	assert.ErrorIs(t, err, ErrMissingAuth)
	assert.EqualError(t, err, "Missing Google auth")
}

func TestOpenRejectsBadServiceAccount(t *testing.T) {
	c := newConnector(t, httpmock.NewMockTransport(), WithConfig(config.GoogleConfig{ServiceAccountKey: "not json"}))

	_, err := c.Open(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingAuth)
}

func TestOpenDetectsSharedDrive(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, filesURL+"/parent-1",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{
			"driveId":      "shared-9",
			"capabilities": map[string]any{"canAddChildren": true},
		}))

	google := envOAuth
	google.FolderID = "parent-1"

	client, err := newConnector(t, mock, WithConfig(google)).Open(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "parent-1", client.ParentID())
	assert.Equal(t, "shared-9", client.DriveID())
}

func TestOpenIgnoresDetectionFailure(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, filesURL+"/parent-1",
		httpmock.NewStringResponder(404, `{"error":{"code":404,"message":"File not found"}}`))

	google := envOAuth
	google.FolderID = "parent-1"

	client, err := newConnector(t, mock, WithConfig(google)).Open(context.Background())
	require.NoError(t, err)
	assert.Empty(t, client.DriveID())
}

func TestClientOperations(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, filesURL+"/parent-1",
		httpmock.NewJsonResponderOrPanic(200, map[string]any{"capabilities": map[string]any{"canAddChildren": true}}))

	google := envOAuth
	google.FolderID = "parent-1"
	client, err := newConnector(t, mock, WithConfig(google)).Open(context.Background())
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("create folder", func(t *testing.T) {
		mock.RegisterResponder(http.MethodPost, filesURL,
			httpmock.NewJsonResponderOrPanic(200, map[string]any{
				"id":          "folder-1",
				"name":        "01/02/2568 03:04:05",
				"createdTime": "2025-02-01T03:04:05.000Z",
			}))

		folder, err := client.CreateFolder(ctx, "01/02/2568 03:04:05")
		require.NoError(t, err)
		assert.Equal(t, "folder-1", folder.ID)
		assert.Equal(t, 2025, folder.CreatedTime.Year())
	})

	t.Run("upload", func(t *testing.T) {
		mock.RegisterResponder(http.MethodPost, uploadURL,
			httpmock.NewJsonResponderOrPanic(200, map[string]any{"id": "file-1", "name": "users.json", "size": "17"}))

		file, err := client.Upload(ctx, "folder-1", "users.json", []byte(`{"data":[1,2,3]}`))
		require.NoError(t, err)
		assert.Equal(t, File{ID: "file-1", Name: "users.json", Size: 17}, *file)
	})

	t.Run("upload error", func(t *testing.T) {
		mock.RegisterResponder(http.MethodPost, uploadURL,
			httpmock.NewStringResponder(500, `{"error":{"code":500,"message":"backend"}}`))

		_, err := client.Upload(ctx, "folder-1", "users.json", []byte(`{}`))
		assert.ErrorContains(t, err, "upload users.json")
	})

	t.Run("list folders paginates", func(t *testing.T) {
		mock.RegisterResponder(http.MethodGet, filesURL, func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "createdTime desc", q.Get("orderBy"))
			assert.Contains(t, q.Get("q"), "'parent-1' in parents")

			if q.Get("pageToken") == "" {
				return httpmock.NewJsonResponse(200, map[string]any{
					"nextPageToken": "page-2",
					"files": []map[string]any{
						{"id": "b", "name": "newest", "createdTime": "2025-01-02T00:00:00Z"},
					},
				})
			}
			return httpmock.NewJsonResponse(200, map[string]any{
				"files": []map[string]any{
					{"id": "a", "name": "oldest", "createdTime": "2025-01-01T00:00:00Z"},
				},
			})
		})

		folders, err := client.ListFolders(ctx)
		require.NoError(t, err)
		require.Len(t, folders, 2)
		assert.Equal(t, "b", folders[0].ID)
		assert.Equal(t, "a", folders[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		mock.RegisterResponder(http.MethodDelete, filesURL+"/folder-1", httpmock.NewStringResponder(204, ""))
		require.NoError(t, client.Delete(ctx, "folder-1"))

		mock.RegisterResponder(http.MethodDelete, filesURL+"/missing", httpmock.NewStringResponder(404, `{"error":{"code":404}}`))
		assert.Error(t, client.Delete(ctx, "missing"))
	})
}
