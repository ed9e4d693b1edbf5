package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BrunoTulio/logr"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
	JSONMimeType   = "application/json"
	binaryMimeType = "application/octet-stream"

	rootFolder = "root"
)

type (
	Client struct {
		svc      *gdrive.Service
		log      logr.Logger
		parentID string
		driveID  string
	}

	Folder struct {
		ID          string
		Name        string
		CreatedTime time.Time
	}

	File struct {
		ID   string
		Name string
		Size int64
	}
)

// ParentID is the folder backups are created under. Empty means Drive root.
func (c *Client) ParentID() string {
	return c.parentID
}

// DriveID is set when the parent folder lives on a shared drive.
func (c *Client) DriveID() string {
	return c.driveID
}

func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	meta := &gdrive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if c.parentID != "" {
		meta.Parents = []string{c.parentID}
	}

	f, err := c.svc.Files.Create(meta).
		SupportsAllDrives(true).
		Fields("id, name, createdTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create folder %s: %w", name, err)
	}

	c.log.Infof("📁 Created backup folder: %s (%s)", f.Name, f.Id)

	return &Folder{
		ID:          f.Id,
		Name:        f.Name,
		CreatedTime: parseTime(f.CreatedTime),
	}, nil
}

// Upload stores data as a new file inside folderID.
func (c *Client) Upload(ctx context.Context, folderID, name string, data []byte) (*File, error) {
	mimeType := JSONMimeType
	if !strings.HasSuffix(name, ".json") {
		mimeType = binaryMimeType
	}

	meta := &gdrive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{folderID},
	}

	f, err := c.svc.Files.Create(meta).
		SupportsAllDrives(true).
		Fields("id, name, size").
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	size := f.Size
	if size == 0 {
		size = int64(len(data))
	}

	return &File{ID: f.Id, Name: f.Name, Size: size}, nil
}

// ListFolders returns the backup folders under the parent, newest first.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	parent := c.parentID
	if parent == "" {
		parent = rootFolder
	}

	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", parent, FolderMimeType)

	var folders []Folder
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(query).
			OrderBy("createdTime desc").
			Fields("nextPageToken, files(id, name, createdTime)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			PageToken(pageToken)

		if c.driveID != "" {
			call = call.Corpora("drive").DriveId(c.driveID)
		}

		res, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("list folders: %w", err)
		}

		for _, f := range res.Files {
			folders = append(folders, Folder{
				ID:          f.Id,
				Name:        f.Name,
				CreatedTime: parseTime(f.CreatedTime),
			})
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return folders, nil
}

// Delete removes a file or folder together with its content.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.svc.Files.Delete(id).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (c *Client) detectSharedDrive(ctx context.Context) {
	f, err := c.svc.Files.Get(c.parentID).
		Fields("driveId, capabilities").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		c.log.Warnf("⚠️  Could not inspect parent folder %s: %v", c.parentID, err)
		return
	}

	if f.DriveId != "" {
		c.driveID = f.DriveId
		c.log.Infof("📂 Using Shared Drive: %s", f.DriveId)
	}

	if f.Capabilities == nil || !f.Capabilities.CanAddChildren {
		c.log.Warnf("⚠️  Current identity may not be able to add files to folder %s", c.parentID)
	}
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
