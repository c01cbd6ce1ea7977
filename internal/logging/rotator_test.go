package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	n, err := ParseSize("10MB")
	require.NoError(t, err)
	assert.Equal(t, int64(10*1000*1000), n)

	n, err = ParseSize("1KiB")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), n)

	_, err = ParseSize("lots")
	assert.Error(t, err)
}

func TestFileRotatorRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	r, err := NewFileRotator(path, 10, 2)
	require.NoError(t, err)
	defer r.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := r.Write([]byte(line))
		require.NoError(t, err)
	}

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dddddddd\n", string(current))

	first, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "cccccccc\n", string(first))

	second, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb\n", string(second))

	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestFileRotatorWithoutBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	r, err := NewFileRotator(path, 4, 0)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = r.Write([]byte("two\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(data))
	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err))
}

func TestFileRotatorRejectsZeroSize(t *testing.T) {
	_, err := NewFileRotator(filepath.Join(t.TempDir(), "app.log"), 0, 1)
	assert.Error(t, err)
}

func TestFileRotatorWriteAfterClose(t *testing.T) {
	r, err := NewFileRotator(filepath.Join(t.TempDir(), "app.log"), 100, 1)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
