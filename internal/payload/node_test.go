package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"pairs": [`))
	require.ErrorIs(t, err, ErrInvalidJSON)
}

func TestGetReturnsAbsentOnMissingOrNonContainerSegments(t *testing.T) {
	root := MustParse(`{"a":{"b":{"c":42}},"s":"text","n":null,"arr":[1,2]}`)

	v, ok := root.Get("a", "b", "c").Number()
	require.True(t, ok)
	assert.Equal(t, 42.0, v)

	cases := map[string][]string{
		"missing leaf":       {"a", "b", "x"},
		"missing middle":     {"a", "x", "c"},
		"through string":     {"s", "c"},
		"through null":       {"n", "c"},
		"through array":      {"arr", "c"},
		"null value":         {"n"},
		"missing root child": {"zzz"},
	}
	for name, keys := range cases {
		t.Run(name, func(t *testing.T) {
			n := root.Get(keys...)
			assert.False(t, n.Exists())
			assert.Equal(t, "NA", n.String("NA"))
			_, ok := n.Float()
			assert.False(t, ok)
			assert.Nil(t, n.Array())
		})
	}
}

func TestGetMatchesKeysLiterally(t *testing.T) {
	root := MustParse(`{"a.b":{"c*":"x"}}`)
	assert.Equal(t, "x", root.Get("a.b", "c*").String(""))
}

func TestNumberIgnoresStringsButFloatParsesThem(t *testing.T) {
	root := MustParse(`{"num":12.5,"str":"7.25","bad":"seven"}`)

	_, ok := root.Get("str").Number()
	assert.False(t, ok)

	v, ok := root.Get("str").Float()
	require.True(t, ok)
	assert.Equal(t, 7.25, v)

	_, ok = root.Get("bad").Float()
	assert.False(t, ok)
	assert.Equal(t, 3.0, root.Get("bad").FloatOr(3))
}

func TestDecimalKeepsLiteralText(t *testing.T) {
	root := MustParse(`{"p":"0.00000123","q":1.5e-7,"r":{"x":1}}`)

	s, ok := root.Get("p").Decimal()
	require.True(t, ok)
	assert.Equal(t, "0.00000123", s)

	s, ok = root.Get("q").Decimal()
	require.True(t, ok)
	assert.Equal(t, "1.5e-7", s)

	_, ok = root.Get("r").Decimal()
	assert.False(t, ok)
}

func TestIndexAndArray(t *testing.T) {
	root := MustParse(`{"pairs":[{"id":"a"},{"id":"b"}]}`)
	pairs := root.Get("pairs")

	assert.Equal(t, 2, pairs.Len())
	assert.Equal(t, "b", pairs.Index(1).Get("id").String(""))
	assert.False(t, pairs.Index(5).Exists())
	assert.False(t, root.Index(0).Exists())
	assert.Len(t, pairs.Array(), 2)
}
