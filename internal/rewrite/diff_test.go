package rewrite

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDiff_Identical(t *testing.T) {
	doc := "entry: src/app.js\n"
	result, err := ComputeDiff(doc, doc, DefaultDiffOptions())
	require.NoError(t, err)
	assert.False(t, result.HasDifferences)
}

func TestComputeDiff_Different(t *testing.T) {
	result, err := ComputeDiff("entry: src/app.js\n", "entry: .prettier/app.js\n", DefaultDiffOptions())
	require.NoError(t, err)
	assert.True(t, result.HasDifferences)
	assert.Contains(t, result.Unified, "--- original")
	assert.Contains(t, result.Unified, "+++ rewritten")
	assert.Contains(t, result.Unified, "-entry: src/app.js")
	assert.Contains(t, result.Unified, "+entry: .prettier/app.js")
}

func TestWriteDiff_NoDifferences(t *testing.T) {
	result, err := ComputeDiff("a\n", "a\n", DefaultDiffOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteDiff(&buf, result, false)
	assert.Equal(t, "No differences found.\n", buf.String())
}

func TestWriteDiff_Color(t *testing.T) {
	result, err := ComputeDiff("line1\nline2\n", "line1\nline3\n", DefaultDiffOptions())
	require.NoError(t, err)

	var plain, colored bytes.Buffer
	WriteDiff(&plain, result, false)
	WriteDiff(&colored, result, true)

	assert.NotContains(t, plain.String(), "\033[")
	assert.Contains(t, plain.String(), "-line2")
	assert.Contains(t, colored.String(), "\033[31m-line2")
	assert.Contains(t, colored.String(), "\033[32m+line3")
}
