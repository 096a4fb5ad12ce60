package fragment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesRoundTrip(t *testing.T) {
	props := map[string]string{
		"columns":                "id,name",
		"columns.types":          "int:string",
		"field.delim":            "|",
		"location":               "hdfs://nn:8020/warehouse/sales",
		"comment":                "a = b: c # not a comment",
		"unicode":                "héllo wörld",
		"reference":              "${not.expanded}",
		"skip.header.line.count": "1",
		"empty":                  "",
	}

	text, err := EncodeProperties(props)
	require.NoError(t, err)

	got, err := DecodeProperties(text)
	require.NoError(t, err)
	assert.Equal(t, props, got)
}

func TestEncodePropertiesSortsKeys(t *testing.T) {
	text, err := EncodeProperties(map[string]string{"b": "2", "c": "3", "a": "1"})
	require.NoError(t, err)

	a := strings.Index(text, "a")
	b := strings.Index(text, "b")
	c := strings.Index(text, "c")
	assert.True(t, a < b && b < c, "keys out of order:\n%s", text)

	again, err := EncodeProperties(map[string]string{"c": "3", "a": "1", "b": "2"})
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestPropertiesEmpty(t *testing.T) {
	text, err := EncodeProperties(nil)
	require.NoError(t, err)
	assert.Empty(t, text)

	got, err := DecodeProperties("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
