package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBuildsBWTFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.bwt")

	require.NoError(t, os.WriteFile(inPath, []byte("banana"), 0o644))

	code := run([]string{"cw-bwt", inPath, outPath, "2"})
	assert.Equal(t, 0, code)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("annb\x00aa"), got)
}

func TestRunRejectsZeroByteInput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.bwt")

	require.NoError(t, os.WriteFile(inPath, []byte{'a', 0, 'b'}, 0o644))

	code := run([]string{"cw-bwt", inPath, outPath})
	assert.Equal(t, 2, code)

	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunMissingArgumentsReturnsUsageError(t *testing.T) {
	code := run([]string{"cw-bwt"})
	assert.NotEqual(t, 0, code)
}
