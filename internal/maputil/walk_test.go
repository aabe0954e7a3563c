package maputil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shadowfmt/internal/maputil"
)

func upper(s string) string { return strings.ToUpper(s) }

func TestMapStrings_NestedStructure(t *testing.T) {
	v := map[string]any{
		"entry": []any{"a.js", "b.js"},
		"resolve": map[string]any{
			"alias": map[string]any{
				"@": "src",
				"n": int64(3),
			},
			"extensions": []string{".js", ".ts"},
		},
		"flag":  true,
		"empty": nil,
		"names": map[string]string{"x": "y"},
	}

	got := maputil.MapStrings(v, upper)

	want := map[string]any{
		"entry": []any{"A.JS", "B.JS"},
		"resolve": map[string]any{
			"alias": map[string]any{
				"@": "SRC",
				"n": int64(3),
			},
			"extensions": []string{".JS", ".TS"},
		},
		"flag":  true,
		"empty": nil,
		"names": map[string]string{"x": "Y"},
	}

	assert.Equal(t, want, got)
	assert.Equal(t, want, v, "rewrite should happen in place")
}

func TestMapStrings_BareString(t *testing.T) {
	assert.Equal(t, "ABC", maputil.MapStrings("abc", upper))
}

func TestMapStrings_Scalars(t *testing.T) {
	assert.Equal(t, 42, maputil.MapStrings(42, upper))
	assert.Nil(t, maputil.MapStrings(nil, upper))
}

func TestMapStrings_CyclicMap(t *testing.T) {
	m := map[string]any{"k": "v"}
	m["self"] = m

	calls := 0
	maputil.MapStrings(m, func(s string) string {
		calls++
		return s + "!"
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, "v!", m["k"])
}

func TestMapStrings_CyclicSlice(t *testing.T) {
	s := []any{"a", nil}
	s[1] = s

	maputil.MapStrings(s, upper)
	assert.Equal(t, "A", s[0])
}

func TestMapStrings_SharedContainerVisitedOnce(t *testing.T) {
	shared := map[string]any{"p": "x"}
	v := []any{shared, shared}

	maputil.MapStrings(v, func(s string) string { return s + "x" })
	assert.Equal(t, "xx", shared["p"])
}

func TestMapStrings_DeepNesting(t *testing.T) {
	root := map[string]any{}
	cur := root

	for i := 0; i < 10000; i++ {
		next := map[string]any{}
		cur["next"] = next
		cur = next
	}

	cur["leaf"] = "deep"

	maputil.MapStrings(root, upper)
	require.Equal(t, "DEEP", cur["leaf"])
}
