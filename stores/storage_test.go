package stores

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		env  map[string]string
		typ  string
	}{
		{"default", map[string]string{"STORAGE_TYPE": ""}, "*memory.postStore"},
		{"filesystem", map[string]string{
			"STORAGE_TYPE":       "filesystem",
			"LOCAL_STORAGE_PATH": filepath.Join(dir, "fs"),
		}, "*filesystem.postStore"},
		{"sqlite", map[string]string{
			"STORAGE_TYPE":     "sqlite",
			"DATA_SOURCE_NAME": filepath.Join(dir, "blog.db"),
		}, "*sqlite.postStore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			store, err := GetStore(context.Background())
			require.NoError(t, err)
			defer store.Close()
			assert.Equal(t, tt.typ, fmt.Sprintf("%T", store))
		})
	}
}

func TestGetStorePostgresUnreachable(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	_, err := GetStore(context.Background())
	assert.Error(t, err)
}
