// Package extjson converts decoded BSON documents into plain JSON values,
// wrapping the types JSON cannot express in Extended JSON markers.
package extjson

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Object is a JSON object that keeps the field order of the source document.
type Object = orderedmap.OrderedMap[string, any]

const dateLayout = "2006-01-02T15:04:05.000Z"

// drop is returned for values that have no JSON form at all.
type drop struct{}

// Sanitize walks v and returns a tree made only of nil, bool, string,
// numbers, []any, map[string]any and *Object.
func Sanitize(v any) any {
	out := visit(v)
	if _, ok := out.(drop); ok {
		return nil
	}
	return out
}

// Documents sanitizes a whole collection read.
func Documents(docs []bson.D) []any {
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = Sanitize(d)
	}
	return out
}

func visit(v any) any {
	switch t := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case string, bool, int32, int64, int:
		return t
	case float32:
		return visitFloat(float64(t))
	case float64:
		return visitFloat(t)
	case primitive.DateTime:
		return date(t.Time())
	case time.Time:
		return date(t)
	case primitive.ObjectID:
		return wrap("$oid", t.Hex())
	case primitive.Binary:
		return binary(t.Data, t.Subtype)
	case []byte:
		return binary(t, 0x00)
	case primitive.Decimal128:
		return wrap("$numberDecimal", t.String())
	case primitive.Timestamp:
		inner := orderedmap.New[string, any]()
		inner.Set("t", t.T)
		inner.Set("i", t.I)
		return wrap("$timestamp", inner)
	case primitive.Regex:
		inner := orderedmap.New[string, any]()
		inner.Set("pattern", t.Pattern)
		inner.Set("options", t.Options)
		return wrap("$regularExpression", inner)
	case primitive.MinKey:
		return wrap("$minKey", 1)
	case primitive.MaxKey:
		return wrap("$maxKey", 1)
	case primitive.JavaScript:
		return wrap("$code", string(t))
	case primitive.Symbol:
		return wrap("$symbol", string(t))
	case primitive.CodeWithScope:
		return wrap("$code", string(t.Code))
	case primitive.DBPointer:
		inner := orderedmap.New[string, any]()
		inner.Set("$ref", t.DB)
		inner.Set("$id", wrap("$oid", t.Pointer.Hex()))
		return wrap("$dbPointer", inner)
	case bson.D:
		return visitD(t)
	case bson.M:
		return visitMap(t)
	case map[string]any:
		return visitMap(t)
	case bson.A:
		return visitSlice(t)
	case []any:
		return visitSlice(t)
	case []bson.D:
		out := make([]any, len(t))
		for i, d := range t {
			out[i] = visitD(d)
		}
		return out
	default:
		return visitUnknown(v)
	}
}

func visitFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return wrap("$numberDouble", "NaN")
	case math.IsInf(f, 1):
		return wrap("$numberDouble", "Infinity")
	case math.IsInf(f, -1):
		return wrap("$numberDouble", "-Infinity")
	default:
		return f
	}
}

func visitD(d bson.D) *Object {
	obj := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](len(d)))
	for _, e := range d {
		val := visit(e.Value)
		if _, ok := val.(drop); ok {
			continue
		}
		obj.Set(e.Key, val)
	}
	return obj
}

// visitMap has no source order to keep, so keys come out sorted by encoding/json.
func visitMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		val := visit(v)
		if _, ok := val.(drop); ok {
			continue
		}
		out[k] = val
	}
	return out
}

func visitSlice(items []any) []any {
	out := make([]any, len(items))
	for i, it := range items {
		val := visit(it)
		if _, ok := val.(drop); ok {
			val = nil
		}
		out[i] = val
	}
	return out
}

// visitUnknown drops values that cannot be represented and stringifies the rest.
func visitUnknown(v any) any {
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return drop{}
	}
	return fmt.Sprint(v)
}

func date(t time.Time) *Object {
	return wrap("$date", t.UTC().Format(dateLayout))
}

func binary(data []byte, subtype byte) *Object {
	inner := orderedmap.New[string, any]()
	inner.Set("base64", base64.StdEncoding.EncodeToString(data))
	inner.Set("subType", fmt.Sprintf("%02x", subtype))
	return wrap("$binary", inner)
}

func wrap(marker string, v any) *Object {
	obj := orderedmap.New[string, any]()
	obj.Set(marker, v)
	return obj
}
