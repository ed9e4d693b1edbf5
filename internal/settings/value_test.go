package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{name: "nil", in: nil, want: KindNull},
		{name: "bson null", in: primitive.Null{}, want: KindNull},
		{name: "string", in: "0 * * * *", want: KindString},
		{name: "bool", in: true, want: KindBool},
		{name: "int32", in: int32(4), want: KindNumber},
		{name: "int64", in: int64(4), want: KindNumber},
		{name: "double", in: 4.5, want: KindNumber},
		{name: "string array", in: primitive.A{"users", "orders"}, want: KindStringList},
		{name: "empty array", in: primitive.A{}, want: KindStringList},
		{name: "mixed array", in: primitive.A{"users", int32(1)}, want: KindUnsupported},
		{name: "document", in: bson.D{{Key: "a", Value: 1}}, want: KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAny(tt.in).Kind())
		})
	}
}

func TestValueFallbacks(t *testing.T) {
	assert.Equal(t, "def", Number(3).StringOr("def"))
	assert.Equal(t, "x", String("x").StringOr("def"))
	assert.Equal(t, "def", String("   ").TrimmedStringOr("def"))
	assert.Equal(t, "*/15 * * * *", String(" */15 * * * * ").TrimmedStringOr("def"))
	assert.Equal(t, 7.0, String("7").NumberOr(7))
	assert.Equal(t, 2.0, Number(2).NumberOr(7))
	assert.True(t, Null().BoolOr(true))
	assert.False(t, Bool(false).BoolOr(true))
	assert.Nil(t, String("a").StringsOr(nil))
	assert.Equal(t, []string{"a", "b"}, StringList([]string{"a", "b"}).StringsOr(nil))
}

func TestValueRaw(t *testing.T) {
	assert.Nil(t, Null().Raw())
	assert.Equal(t, "s", String("s").Raw())
	assert.Equal(t, []string{"a"}, StringList([]string{"a"}).Raw())
	assert.Equal(t, "string-list", KindStringList.String())
}
