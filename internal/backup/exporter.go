// Package backup exports MongoDB collections into a new Drive folder.
package backup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/drive"
	"github.com/BrunoTulio/mongopher/internal/encoder"
	"github.com/BrunoTulio/mongopher/internal/extjson"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"github.com/BrunoTulio/mongopher/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	SummaryFileName  = "backupsummary.json"
	systemPrefix     = "system."
	collectionSuffix = ".json"
)

type (
	Database interface {
		Connect(ctx context.Context) error
		ListCollectionNames(ctx context.Context) ([]string, error)
		FindAll(ctx context.Context, collection string) ([]bson.D, error)
	}

	Remote interface {
		CreateFolder(ctx context.Context, name string) (*drive.Folder, error)
		Upload(ctx context.Context, folderID, name string, data []byte) (*drive.File, error)
	}

	// Opener connects to Drive at the start of every run so credential
	// changes in the settings store are picked up.
	Opener func(ctx context.Context) (Remote, error)

	Exporter struct {
		log  logr.Logger
		db   Database
		open Opener
		opt  *Options
	}

	CollectionResult struct {
		Collection string `json:"collection"`
		Success    bool   `json:"success"`
		FileID     string `json:"fileId,omitempty"`
		Size       int64  `json:"size,omitempty"`
		Error      string `json:"error,omitempty"`
	}

	Summary struct {
		BackupDate        time.Time          `json:"backupDate"`
		FolderID          string             `json:"folderId"`
		FolderName        string             `json:"folderName"`
		Collections       []CollectionResult `json:"collections"`
		TotalCollections  int                `json:"totalCollections"`
		SuccessfulBackups int                `json:"successfulBackups"`
		FailedBackups     int                `json:"failedBackups"`
	}
)

func NewExporter(log logr.Logger, db Database, open Opener, opts ...FnOptions) *Exporter {
	opt := &Options{Now: time.Now}
	for _, o := range opts {
		o(opt)
	}

	return &Exporter{
		log:  log,
		db:   db,
		open: open,
		opt:  opt,
	}
}

// PerformBackup writes every selected collection into a fresh folder.
// Per-collection failures are recorded in the summary; only setup failures
// abort the run.
func (e *Exporter) PerformBackup(ctx context.Context) (*Summary, error) {
	e.log.Info("📦 Starting backup...")

	if err := e.db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var enc *encoder.Encryptor
	if e.opt.IsEncryptEnabled() {
		var err error
		if enc, err = encoder.NewEncryptor(e.opt.EncryptionKey); err != nil {
			return nil, fmt.Errorf("failed to create encryptor: %w", err)
		}
	}

	remote, err := e.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open drive: %w", err)
	}

	now := e.opt.Now()
	folder, err := remote.CreateFolder(ctx, utils.FolderName(now, e.opt.location()))
	if err != nil {
		return nil, fmt.Errorf("create backup folder: %w", err)
	}

	names, err := e.db.ListCollectionNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	selected := SelectCollections(names, e.selectedCollections(ctx))
	e.log.Infof("   Collections: %d", len(selected))

	summary := &Summary{
		BackupDate:       now.UTC(),
		FolderID:         folder.ID,
		FolderName:       folder.Name,
		Collections:      make([]CollectionResult, 0, len(selected)),
		TotalCollections: len(selected),
	}

	for i, name := range selected {
		result := e.exportCollection(ctx, remote, enc, folder.ID, name)
		summary.Collections = append(summary.Collections, result)

		if result.Success {
			summary.SuccessfulBackups++
			e.log.Infof("   ✅ %s (%s)", name, utils.FormatBytes(result.Size))
		} else {
			summary.FailedBackups++
			e.log.Warnf("   ❌ %s: %s", name, result.Error)
		}

		if e.opt.Progress != nil {
			e.opt.Progress(i+1, len(selected), name)
		}
	}

	if err := e.uploadSummary(ctx, remote, folder.ID, summary); err != nil {
		e.log.Errorf("⚠️  Failed to upload backup summary: %v", err)
		return summary, err
	}

	e.log.Infof("✅ Backup finished: %d ok, %d failed (folder %s)",
		summary.SuccessfulBackups, summary.FailedBackups, summary.FolderName)

	return summary, nil
}

func (e *Exporter) exportCollection(
	ctx context.Context,
	remote Remote,
	enc *encoder.Encryptor,
	folderID, name string,
) CollectionResult {
	result := CollectionResult{Collection: name}

	docs, err := e.db.FindAll(ctx, name)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	data, err := extjson.CollectionExport{
		CollectionName: name,
		ExportDate:     e.opt.Now(),
		Documents:      docs,
	}.Marshal()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	fileName := name + collectionSuffix
	if enc != nil {
		if data, err = enc.Encrypt(data); err != nil {
			result.Error = err.Error()
			return result
		}
		fileName += encoder.Extension
	}

	file, err := remote.Upload(ctx, folderID, fileName, data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.FileID = file.ID
	result.Size = file.Size
	return result
}

func (e *Exporter) uploadSummary(ctx context.Context, remote Remote, folderID string, summary *Summary) error {
	data, err := extjson.MarshalIndent(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if _, err := remote.Upload(ctx, folderID, SummaryFileName, data); err != nil {
		return fmt.Errorf("upload summary: %w", err)
	}
	return nil
}

func (e *Exporter) selectedCollections(ctx context.Context) []string {
	if e.opt.Settings == nil {
		return nil
	}

	v, err := e.opt.Settings.Get(ctx, settings.KeySelectedCollections)
	if err != nil {
		e.log.Warnf("⚠️  Failed to read %s, exporting all collections: %v", settings.KeySelectedCollections, err)
		return nil
	}
	return v.StringsOr(nil)
}

// SelectCollections drops system collections and, when allow is not empty,
// keeps only the names it lists. The result is sorted.
func SelectCollections(names, allow []string) []string {
	allowed := make(map[string]struct{}, len(allow))
	for _, a := range allow {
		if a = strings.TrimSpace(a); a != "" {
			allowed[a] = struct{}{}
		}
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasPrefix(n, systemPrefix) {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[n]; !ok {
				continue
			}
		}
		out = append(out, n)
	}

	sort.Strings(out)
	return out
}
