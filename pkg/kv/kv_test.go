package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("app_json_data2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("app_json_data2", `{"tasks":[]}`))
	require.NoError(t, s.Set("other", "x"))
	require.NoError(t, s.Set("app_json_data2", `{"tasks":[1]}`))

	v, ok, err := s.Get("app_json_data2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"tasks":[1]}`, v)

	v, ok, err = s.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	s, err := NewFile(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := NewFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFile(path)
	require.NoError(t, err)
	defer s.Close()

	_, _, err = s.Get("k")
	assert.Error(t, err)

	require.NoError(t, s.Set("k", "v"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestNutsDB(t *testing.T) {
	dir := t.TempDir()

	s, err := NewNutsDB(dir)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := NewNutsDB(dir)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("app_json_data2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"tasks":[1]}`, v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendFile, DefaultPath(dir, BackendFile))
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)
	require.NoError(t, s.Close())

	s, err = Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open("redis", dir)
	assert.Error(t, err)
}
