package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject creates a project with a src directory in a temp dir, makes it
// the working directory and returns it.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	t.Chdir(root)

	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// ---------------------------------------------------------------------------
// build
// ---------------------------------------------------------------------------

func TestBuild_FormatsInPlace(t *testing.T) {
	root := newProject(t, map[string]string{
		"package.json": `{"name":"app"}`,
		"src/a.js":     "const a = 1;   ",
		"src/b.json":   `[1,2]`,
	})

	_, stderr, err := executeCommand("build", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stderr, "formatted")

	assert.Equal(t, "const a = 1;\n", readFile(t, filepath.Join(root, "src", "a.js")))
	assert.Equal(t, "[\n  1,\n  2\n]\n", readFile(t, filepath.Join(root, "src", "b.json")))
	assert.Equal(t, "{\n  \"name\": \"app\"\n}\n", readFile(t, filepath.Join(root, "package.json")))

	_, statErr := os.Stat(filepath.Join(root, ".prettier"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_FormatterConfig(t *testing.T) {
	root := newProject(t, map[string]string{
		".shadowfmt.yaml": "formatter:\n  defaults:\n    indentWidth: 4\n",
		"src/a.json":      `{"a":1}`,
	})

	_, _, err := executeCommand("build", "--log-level", "error")
	require.NoError(t, err)

	assert.Equal(t, "{\n    \"a\": 1\n}\n", readFile(t, filepath.Join(root, "src", "a.json")))
}

func TestBuild_FormatErrorExitCode1(t *testing.T) {
	newProject(t, map[string]string{"src/bad.json": `{"a":`})

	_, _, err := executeCommand("build", "--log-level", "error")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestBuild_MissingSourceExitCode2(t *testing.T) {
	newProject(t, nil)

	_, _, err := executeCommand("build", "--source", "missing", "--log-level", "error")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func TestWatch_MirrorsAndPurgesOnExit(t *testing.T) {
	root := newProject(t, map[string]string{"src/a.js": "a  "})

	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"watch", "--log-level", "error", "--includes", ""})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- cmd.ExecuteContext(ctx) }()

	shadow := filepath.Join(root, ".prettier", "a.js")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(shadow)
		return err == nil && string(data) == "a\n"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	_, err := os.Stat(filepath.Join(root, ".prettier"))
	assert.True(t, os.IsNotExist(err), "the shadow tree is purged on exit")
}

func TestWatch_CacheInsideSourceExitCode2(t *testing.T) {
	newProject(t, nil)

	_, _, err := executeCommand("watch", "--cache", "src/.prettier", "--log-level", "error")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, err.Error(), "cache is inside source")
}

func TestWatch_RejectsArgs(t *testing.T) {
	_, _, err := executeCommand("watch", "extra")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// rewrite
// ---------------------------------------------------------------------------

const hostJSON = `{"entry": {"app": "src/app.js"}, "resolve": {"alias": {"@": "src"}}}`

func TestRewrite_Stdout(t *testing.T) {
	newProject(t, map[string]string{"webpack.json": hostJSON})

	stdout, _, err := executeCommand("rewrite", "webpack.json")
	require.NoError(t, err)

	assert.Contains(t, stdout, `"app": ".prettier/app.js"`)
	assert.Contains(t, stdout, `"@": ".prettier"`)
	assert.Contains(t, stdout, `"**/node_modules"`)
}

func TestRewrite_BuildOnce(t *testing.T) {
	newProject(t, map[string]string{"webpack.json": hostJSON})

	stdout, _, err := executeCommand("rewrite", "webpack.json", "--build-once")
	require.NoError(t, err)

	assert.Contains(t, stdout, `"app": "src/app.js"`)
	assert.Contains(t, stdout, `"ignored"`)
}

func TestRewrite_YAMLOutput(t *testing.T) {
	newProject(t, map[string]string{"webpack.json": hostJSON})

	stdout, _, err := executeCommand("rewrite", "webpack.json", "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, stdout, "app: .prettier/app.js")
}

func TestRewrite_Diff(t *testing.T) {
	newProject(t, map[string]string{"host.yaml": "entry: src/app.js\n"})

	stdout, _, err := executeCommand("rewrite", "host.yaml", "--diff", "--no-color")
	require.NoError(t, err)

	assert.NotContains(t, stdout, "\033[")
	assert.Contains(t, stdout, "-entry: src/app.js")
	assert.Contains(t, stdout, "+entry: .prettier/app.js")
	assert.Contains(t, stdout, "host.yaml (rewritten)")
}

func TestRewrite_InPlace(t *testing.T) {
	root := newProject(t, map[string]string{"host.yaml": "entry: src/app.js\n"})

	_, _, err := executeCommand("rewrite", "host.yaml", "-i")
	require.NoError(t, err)

	assert.Contains(t, readFile(t, filepath.Join(root, "host.yaml")), "entry: .prettier/app.js")
}

func TestRewrite_OutputFile(t *testing.T) {
	root := newProject(t, map[string]string{"host.yaml": "entry: src/app.js\n"})

	_, _, err := executeCommand("rewrite", "host.yaml", "-o", "out/host.yaml")
	require.NoError(t, err)

	assert.Contains(t, readFile(t, filepath.Join(root, "out", "host.yaml")), "entry: .prettier/app.js")
	assert.Equal(t, "entry: src/app.js\n", readFile(t, filepath.Join(root, "host.yaml")))
}

func TestRewrite_ConflictingFlags(t *testing.T) {
	newProject(t, map[string]string{"host.yaml": "entry: src/app.js\n"})

	_, _, err := executeCommand("rewrite", "host.yaml", "-i", "-o", "x.yaml")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRewrite_InvalidFormat(t *testing.T) {
	newProject(t, map[string]string{"host.yaml": "entry: a\n"})

	_, _, err := executeCommand("rewrite", "host.yaml", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRewrite_MissingFile(t *testing.T) {
	newProject(t, nil)

	_, _, err := executeCommand("rewrite", "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading host configuration")
}

func TestRewrite_NoArgs(t *testing.T) {
	_, _, err := executeCommand("rewrite")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// clean
// ---------------------------------------------------------------------------

func TestClean_RemovesShadowTree(t *testing.T) {
	root := newProject(t, map[string]string{".prettier/a.js": "stale"})

	_, stderr, err := executeCommand("clean")
	require.NoError(t, err)
	assert.Contains(t, stderr, "removed")

	_, statErr := os.Stat(filepath.Join(root, ".prettier"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClean_WithoutSourceDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".prettier"), 0o755))
	t.Chdir(root)

	_, _, err := executeCommand("clean")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(root, ".prettier"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClean_RefusesSourceInsideCache(t *testing.T) {
	root := newProject(t, nil)

	_, _, err := executeCommand("clean", "--cache", ".")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, statErr := os.Stat(filepath.Join(root, "src"))
	require.NoError(t, statErr)
}
