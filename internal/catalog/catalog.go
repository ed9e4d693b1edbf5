// Package catalog lists the backup folders kept in Drive.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/drive"
	"github.com/BrunoTulio/mongopher/internal/utils"
)

type (
	Remote interface {
		ParentID() string
		DriveID() string
		ListFolders(ctx context.Context) ([]drive.Folder, error)
	}

	Opener func(ctx context.Context) (Remote, error)

	Catalog struct {
		open Opener
		opt  *Options
		log  logr.Logger
	}

	Entry struct {
		Index   int       `json:"index"`
		ID      string    `json:"id"`
		Name    string    `json:"name"`
		Created time.Time `json:"createdTime"`
		Age     string    `json:"age"`
		// Expired folders are removed by the next successful run.
		Expired bool `json:"expired"`
	}

	Listing struct {
		ParentID string `json:"parentId"`
		// DriveID is set when the parent lives in a shared drive.
		DriveID string  `json:"driveId,omitempty"`
		Keep    int     `json:"keep"`
		Entries []Entry `json:"entries"`
	}
)

func NewWithOptions(log logr.Logger, open Opener, opts ...FnOptions) *Catalog {
	opt := &Options{Keep: config.DefaultKeep, Now: time.Now}

	for _, o := range opts {
		o(opt)
	}

	return &Catalog{
		open: open,
		opt:  opt,
		log:  log,
	}
}

// List returns the backup folders newest first.
func (c *Catalog) List(ctx context.Context) (*Listing, error) {
	remote, err := c.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open drive: %w", err)
	}

	c.log.Infof("📂 Listing backups in %s", remote.ParentID())

	folders, err := remote.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list backup folders: %w", err)
	}

	now := c.opt.Now()
	listing := &Listing{
		ParentID: remote.ParentID(),
		DriveID:  remote.DriveID(),
		Keep:     c.opt.Keep,
		Entries:  make([]Entry, 0, len(folders)),
	}

	for i, f := range folders {
		listing.Entries = append(listing.Entries, Entry{
			Index:   i + 1,
			ID:      f.ID,
			Name:    f.Name,
			Created: f.CreatedTime,
			Age:     utils.FormatDuration(now.Sub(f.CreatedTime)),
			Expired: i >= c.opt.Keep,
		})
	}

	return listing, nil
}

// Expired counts entries beyond the retention count.
func (l *Listing) Expired() int {
	if n := len(l.Entries) - l.Keep; n > 0 {
		return n
	}
	return 0
}
