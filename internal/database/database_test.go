package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestMigrationsSource(t *testing.T) {
	t.Run("repository root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "migrations"), 0o755))
		chdir(t, root)

		src, err := MigrationsSource()
		require.NoError(t, err)
		assert.Equal(t, "file://migrations", src)
	})

	t.Run("binary directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "migrations"), 0o755))
		binDir := filepath.Join(root, "cmd", "server")
		require.NoError(t, os.MkdirAll(binDir, 0o755))
		chdir(t, binDir)

		src, err := MigrationsSource()
		require.NoError(t, err)
		assert.Equal(t, "file://../../migrations", src)
	})

	t.Run("file named migrations is ignored", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "migrations"), []byte("x"), 0o644))
		chdir(t, root)

		_, err := MigrationsSource()
		assert.Error(t, err)
	})
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := OpenRedis(mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = OpenRedis(mr.Addr(), "", 0)
	assert.Error(t, err)
}

func TestOpenMySQL_Unreachable(t *testing.T) {
	_, err := OpenMySQL("user:pass@tcp(127.0.0.1:1)/hotel?timeout=200ms", SchedulerPool)
	assert.Error(t, err)
}
