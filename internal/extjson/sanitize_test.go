package extjson

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func roundTrip(t *testing.T, v any) map[string]any {
	t.Helper()

	data, err := MarshalIndent(Sanitize(v))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSanitizeRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 45, 123_000_000, time.FixedZone("ICT", 7*3600))
	oid, err := primitive.ObjectIDFromHex("65f1c0ffee0000000000abcd")
	require.NoError(t, err)

	doc := bson.D{
		{Key: "_id", Value: oid},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(created)},
		{Key: "avatar", Value: primitive.Binary{Subtype: 0x00, Data: []byte("hello")}},
		{Key: "profile", Value: bson.D{
			{Key: "name", Value: "Ann"},
			{Key: "tags", Value: bson.A{"a", primitive.Undefined{}, int32(3)}},
		}},
		{Key: "missing", Value: primitive.Undefined{}},
	}

	out := roundTrip(t, doc)

	assert.Equal(t, map[string]any{"$oid": "65f1c0ffee0000000000abcd"}, out["_id"])
	assert.Equal(t, map[string]any{"$date": "2024-03-01T05:30:45.123Z"}, out["createdAt"])
	assert.Equal(t, map[string]any{
		"$binary": map[string]any{"base64": "aGVsbG8=", "subType": "00"},
	}, out["avatar"])

	profile, ok := out["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ann", profile["name"])
	assert.Equal(t, []any{"a", nil, float64(3)}, profile["tags"])

	v, present := out["missing"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestSanitizeKeepsFieldOrder(t *testing.T) {
	data, err := MarshalIndent(Sanitize(bson.D{
		{Key: "zeta", Value: 1},
		{Key: "alpha", Value: 2},
		{Key: "mid", Value: bson.D{{Key: "y", Value: 1}, {Key: "b", Value: 2}}},
	}))
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, strings.Index(s, `"zeta"`), strings.Index(s, `"alpha"`))
	assert.Less(t, strings.Index(s, `"y"`), strings.Index(s, `"b"`))
	assert.Contains(t, s, "\n  \"zeta\": 1")
}

func TestSanitizeScalars(t *testing.T) {
	dec, err := primitive.ParseDecimal128("12.50")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nan", in: math.NaN(), want: map[string]any{"$numberDouble": "NaN"}},
		{name: "inf", in: math.Inf(-1), want: map[string]any{"$numberDouble": "-Infinity"}},
		{name: "decimal", in: dec, want: map[string]any{"$numberDecimal": "12.50"}},
		{name: "timestamp", in: primitive.Timestamp{T: 10, I: 2}, want: map[string]any{"$timestamp": map[string]any{"t": float64(10), "i": float64(2)}}},
		{name: "regex", in: primitive.Regex{Pattern: "^a", Options: "i"}, want: map[string]any{"$regularExpression": map[string]any{"pattern": "^a", "options": "i"}}},
		{name: "min key", in: primitive.MinKey{}, want: map[string]any{"$minKey": float64(1)}},
		{name: "time.Time", in: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), want: map[string]any{"$date": "2020-01-02T03:04:05.000Z"}},
		{name: "raw bytes", in: []byte{0xff}, want: map[string]any{"$binary": map[string]any{"base64": "/w==", "subType": "00"}}},
		{name: "stringified", in: struct{ A int }{A: 1}, want: "{1}"},
		{name: "plain map", in: bson.M{"k": primitive.Null{}}, want: map[string]any{"k": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := roundTrip(t, bson.D{{Key: "v", Value: tt.in}})
			assert.Equal(t, tt.want, out["v"])
		})
	}
}

func TestSanitizeDropsFuncAndChan(t *testing.T) {
	out := roundTrip(t, bson.D{
		{Key: "fn", Value: func() {}},
		{Key: "ch", Value: make(chan int)},
		{Key: "list", Value: bson.A{func() {}, "x"}},
		{Key: "kept", Value: true},
	})

	_, hasFn := out["fn"]
	_, hasCh := out["ch"]
	assert.False(t, hasFn)
	assert.False(t, hasCh)
	assert.Equal(t, []any{nil, "x"}, out["list"])
	assert.Equal(t, true, out["kept"])
}

func TestCollectionExportMarshal(t *testing.T) {
	export := CollectionExport{
		CollectionName: "users",
		ExportDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Documents: []bson.D{
			{{Key: "n", Value: int32(1)}},
			{{Key: "n", Value: int32(2)}},
		},
	}

	data, err := export.Marshal()
	require.NoError(t, err)

	var out struct {
		CollectionName string           `json:"collectionName"`
		ExportDate     string           `json:"exportDate"`
		DocumentCount  int              `json:"documentCount"`
		Data           []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "users", out.CollectionName)
	assert.Equal(t, "2025-06-01T00:00:00.000Z", out.ExportDate)
	assert.Equal(t, 2, out.DocumentCount)
	assert.Len(t, out.Data, 2)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"collectionName\""))
}
