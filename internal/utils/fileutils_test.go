package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(tempDir, "a", "b")
		require.NoError(t, EnsureDir(dir))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("existing directory is fine", func(t *testing.T) {
		require.NoError(t, EnsureDir(tempDir))
	})

	t.Run("file in the way", func(t *testing.T) {
		file := filepath.Join(tempDir, "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		err := EnsureDir(file)
		require.Error(t, err)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, EnsureDir(""))
	})
}

func TestWriteFileAtomic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "plan.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "plan.json"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestRemoveMatching(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"a.wav", "b.wav", "concat_long.txt", "keep.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "dir.wav"), 0755))

	removed, err := RemoveMatching(tempDir, []string{"*.wav", "concat_*.txt"})
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	assert.FileExists(t, filepath.Join(tempDir, "keep.mp4"))
	assert.DirExists(t, filepath.Join(tempDir, "dir.wav"))
	assert.NoFileExists(t, filepath.Join(tempDir, "a.wav"))
}

func TestRemoveMatching_BadPattern(t *testing.T) {
	_, err := RemoveMatching(t.TempDir(), []string{"[", "*.wav"})
	assert.Error(t, err)
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHomeDir("~/tokens")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tokens"), got)

	got, err = ExpandHomeDir("~")
	require.NoError(t, err)
	assert.Equal(t, "~", got)

	got, err = ExpandHomeDir("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
