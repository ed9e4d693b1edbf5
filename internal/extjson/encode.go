package extjson

import (
	"encoding/json"
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// CollectionExport is the content of one <collection>.json file.
type CollectionExport struct {
	CollectionName string
	ExportDate     time.Time
	Documents      []bson.D
}

// MarshalIndent renders v as two-space indented JSON.
func MarshalIndent(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return out, nil
}

// Marshal sanitizes every document and renders the export file.
func (e CollectionExport) Marshal() ([]byte, error) {
	obj := orderedmap.New[string, any]()
	obj.Set("collectionName", e.CollectionName)
	obj.Set("exportDate", e.ExportDate.UTC().Format(dateLayout))
	obj.Set("documentCount", len(e.Documents))
	obj.Set("data", Documents(e.Documents))

	return MarshalIndent(obj)
}
