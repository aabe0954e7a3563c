package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewStdoutWriter(&buf)

	data := []byte("entry: .prettier/app.js\n")
	require.NoError(t, w.Write(data))
	assert.Equal(t, string(data), buf.String())
}

func TestStdoutWriter_NilDefault(t *testing.T) {
	w := NewStdoutWriter(nil)
	assert.NotNil(t, w)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestStdoutWriter_Error(t *testing.T) {
	err := NewStdoutWriter(failingWriter{}).Write([]byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing to stdout")
}

func TestFileWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output", "webpack.json")

	w := NewFileWriter(path)
	data := []byte("{\"entry\": \".prettier/app.js\"}\n")
	require.NoError(t, w.Write(data))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	assert.Equal(t, path, w.Path())
}

func TestFileWriter_CustomPermissions(t *testing.T) {
	fsys := afero.NewMemMapFs()

	w := NewFileWriter("/cfg/host.yaml", WithFs(fsys), WithPermissions(0o600))
	require.NoError(t, w.Write([]byte("entry: a\n")))

	info, err := fsys.Stat("/cfg/host.yaml")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileWriter_OverwriteKeepsPermissions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/host.yaml", []byte("old"), 0o640))

	w := NewFileWriter("/host.yaml", WithFs(fsys))
	require.NoError(t, w.Write([]byte("new")))

	got, err := afero.ReadFile(fsys, "/host.yaml")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	info, err := fsys.Stat("/host.yaml")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestFileWriter_ReadOnly(t *testing.T) {
	w := NewFileWriter("/host.yaml", WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))

	err := w.Write([]byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing file")
}
