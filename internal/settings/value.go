package settings

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindStringList
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindStringList:
		return "string-list"
	default:
		return "unsupported"
	}
}

// Value is a setting value narrowed at read time to one of the supported kinds.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []string
}

func Null() Value                 { return Value{kind: KindNull} }
func String(s string) Value       { return Value{kind: KindString, str: s} }
func Number(n float64) Value      { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func StringList(l []string) Value { return Value{kind: KindStringList, list: l} }

// FromAny narrows a decoded BSON value. Lists are only accepted when every
// element is a string.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case float64:
		return Number(t)
	case []string:
		return StringList(append([]string(nil), t...))
	case primitive.A:
		return listFrom(t)
	case []any:
		return listFrom(t)
	default:
		return Value{kind: KindUnsupported}
	}
}

func listFrom(items []any) Value {
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return Value{kind: KindUnsupported}
		}
		out = append(out, s)
	}
	return StringList(out)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) StringOr(def string) string {
	if v.kind != KindString {
		return def
	}
	return v.str
}

// TrimmedStringOr also falls back when the string is blank.
func (v Value) TrimmedStringOr(def string) string {
	s := strings.TrimSpace(v.StringOr(""))
	if s == "" {
		return def
	}
	return s
}

func (v Value) NumberOr(def float64) float64 {
	if v.kind != KindNumber {
		return def
	}
	return v.num
}

func (v Value) BoolOr(def bool) bool {
	if v.kind != KindBool {
		return def
	}
	return v.b
}

func (v Value) StringsOr(def []string) []string {
	if v.kind != KindStringList {
		return def
	}
	return append([]string(nil), v.list...)
}

// Raw returns a plain Go value suitable for JSON output and for storing.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindStringList:
		return append([]string(nil), v.list...)
	default:
		return nil
	}
}
