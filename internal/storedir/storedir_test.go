package storedir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathCandidatesRequireAppAndFilename(t *testing.T) {
	_, err := PathCandidates("", "x.json")
	assert.Error(t, err)
	_, err = PathCandidates("app", "")
	assert.Error(t, err)
}

func TestResolvePrefersExistingCandidate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	target := filepath.Join(home, ".config", "testapp", "tokens.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o700))
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))

	got, err := Resolve("testapp", "tokens.json")
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestResolveFallsBackToFirstCandidate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Resolve("testapp", "tokens.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "testapp", "tokens.json"), got)
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0o600))
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	assert.NoFileExists(t, path+".tmp", "temp file cleaned up")
}
