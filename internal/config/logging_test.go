package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogFile_Prunes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"quill-2020-01-01T00-00-00.log",
		"quill-2020-01-02T00-00-00.log",
		"quill-2020-01-03T00-00-00.log",
		"generate-2020-01-01T00-00-00.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f, err := SetupLogFile(dir, "quill", 2)
	require.NoError(t, err)
	defer f.Close()

	quill, err := filepath.Glob(filepath.Join(dir, "quill-*.log"))
	require.NoError(t, err)
	assert.Len(t, quill, 2)
	assert.Contains(t, quill, f.Name())
	assert.NotContains(t, quill, filepath.Join(dir, "quill-2020-01-01T00-00-00.log"))

	// Other names are left alone
	assert.FileExists(t, filepath.Join(dir, "generate-2020-01-01T00-00-00.log"))
}

func TestSetupLogFile_KeepAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill-2020-01-01T00-00-00.log"), nil, 0644))

	f, err := SetupLogFile(dir, "quill", 0)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "quill-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
