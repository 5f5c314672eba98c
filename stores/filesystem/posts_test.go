package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blog-api/core"
	"blog-api/stores/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPostStore(t *testing.T) {
	suite.Run(t, &storetest.Suite{
		NewStore: func(t *testing.T) core.PostStore {
			store, err := NewPostStore(t.TempDir())
			require.NoError(t, err)
			return store
		},
	})
}

func TestMalformedIDsStayInsideBasePath(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "secret.json")
	require.NoError(t, os.WriteFile(outside, []byte(`{"id":"x"}`), 0644))

	store, err := NewPostStore(filepath.Join(dir, "posts"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.FindID(ctx, "../secret")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	require.NoError(t, store.Delete(ctx, "../secret"))
	assert.FileExists(t, outside)
}

func TestIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0644))

	store, err := NewPostStore(dir)
	require.NoError(t, err)

	_, err = storetest.Seed(context.Background(), store, 2)
	require.NoError(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
