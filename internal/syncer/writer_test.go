package syncer

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriter_LeavesNoTemporaryFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	w := NewAtomicWriter(fsys)

	require.NoError(t, w.WriteFile("/out/dir/a.txt", []byte("one"), 0o644))
	require.NoError(t, w.WriteFile("/out/dir/a.txt", []byte("two"), 0o644))

	entries, err := afero.ReadDir(fsys, "/out/dir")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())

	data, err := afero.ReadFile(fsys, "/out/dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestAtomicWriter_AppliesPermissions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	w := NewAtomicWriter(fsys)

	require.NoError(t, w.WriteFile("/a.sh", []byte("#!/bin/sh"), 0o755))

	info, err := fsys.Stat("/a.sh")
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())
}

func TestAtomicWriter_ReadOnlyFs(t *testing.T) {
	w := NewAtomicWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	err := w.WriteFile("/a.txt", []byte("x"), 0o644)
	require.Error(t, err)
}
