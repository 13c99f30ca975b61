package assetstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-deckbuilder/internal/assetstore"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	store, err := assetstore.New(t.TempDir(), nil)
	require.NoError(t, err)

	loc, err := store.Write([]byte("raster"), "pages/img1.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Root(), "pages", "img1.png"), string(loc))

	data, err := os.ReadFile(string(loc))
	require.NoError(t, err)
	assert.Equal(t, "raster", string(data))
}

func TestWriteRejectsEscapingDestinations(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"parent traversal":  "../evil.png",
		"nested traversal":  "pages/../../evil.png",
		"absolute path":     "/tmp/evil.png",
		"empty destination": "",
	}

	store, err := assetstore.New(t.TempDir(), nil)
	require.NoError(t, err)

	for name, dest := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := store.Write([]byte("x"), dest)

			var boundary *assetstore.ResourceBoundaryError
			require.ErrorAs(t, err, &boundary)
			assert.Equal(t, dest, boundary.Dest)
		})
	}
}

func TestWriteByteCeiling(t *testing.T) {
	t.Parallel()

	store, err := assetstore.New(t.TempDir(), nil, assetstore.WithMaxBytes(4))
	require.NoError(t, err)

	_, err = store.Write([]byte("abc"), "a.png")
	require.NoError(t, err)

	_, err = store.Write([]byte("de"), "b.png")
	var boundary *assetstore.ResourceBoundaryError
	require.ErrorAs(t, err, &boundary)
	assert.Contains(t, boundary.Reason, "byte ceiling")

	// A rejected write consumes no budget.
	_, err = store.Write([]byte("d"), "c.png")
	require.NoError(t, err)
}

func TestWriteCountCeiling(t *testing.T) {
	t.Parallel()

	store, err := assetstore.New(t.TempDir(), nil, assetstore.WithMaxCount(1))
	require.NoError(t, err)

	_, err = store.Write([]byte("x"), "a.png")
	require.NoError(t, err)

	_, err = store.Write([]byte("y"), "b.png")
	var boundary *assetstore.ResourceBoundaryError
	require.ErrorAs(t, err, &boundary)
	assert.Contains(t, boundary.Reason, "count ceiling")
}

func TestNewStagingIsolatesRuns(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	first, err := assetstore.NewStaging(base, nil)
	require.NoError(t, err)
	second, err := assetstore.NewStaging(base, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Root(), second.Root())
	assert.True(t, strings.HasPrefix(first.Root(), base))
	assert.True(t, strings.HasPrefix(second.Root(), base))
	assert.DirExists(t, first.Root())
	assert.DirExists(t, second.Root())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	store, err := assetstore.NewStaging(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = store.Write([]byte("x"), "a.png")
	require.NoError(t, err)

	require.NoError(t, store.Remove())
	assert.NoDirExists(t, store.Root())
}
