package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/config"
)

// exerciseBlobStore runs the behaviour every BlobStore must share
func exerciseBlobStore(t *testing.T, store BlobStore) {
	ctx := context.Background()

	_, err := store.Read(ctx, "mierunbo-expenses")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	require.NoError(t, store.Write(ctx, "mierunbo-expenses", []byte(`[{"id":"a"}]`)))
	data, err := store.Read(ctx, "mierunbo-expenses")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(data))

	// Overwrite replaces the whole blob
	require.NoError(t, store.Write(ctx, "mierunbo-expenses", []byte(`[]`)))
	data, err = store.Read(ctx, "mierunbo-expenses")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	// Nested names with extensions hold binary data
	image := []byte{0xff, 0xd8, 0xff, 0x00, 0x01}
	require.NoError(t, store.Write(ctx, "receipts/e1/r1.jpg", image))
	data, err = store.Read(ctx, "receipts/e1/r1.jpg")
	require.NoError(t, err)
	assert.Equal(t, image, data)

	require.NoError(t, Delete(ctx, store, "receipts/e1/r1.jpg"))
	_, err = store.Read(ctx, "receipts/e1/r1.jpg")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	// Deleting again is not an error
	require.NoError(t, Delete(ctx, store, "receipts/e1/r1.jpg"))

	for _, bad := range []string{"", "/etc/passwd", "../escape", "a/../b", "a//b", `a\b`} {
		assert.ErrorIs(t, store.Write(ctx, bad, []byte("x")), ErrInvalidBlobName, bad)
		_, err := store.Read(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidBlobName, bad)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseBlobStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, store.Write(ctx, "blob", buf))
	buf[0] = 'x'

	data, err := store.Read(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data[1] = 'y'
	again, err := store.Read(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, []string{"blob"}, store.Names())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "nested", "data"))
	require.NoError(t, err)
	exerciseBlobStore(t, store)
}

func TestFileStore_WritesJSONFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write(context.Background(), "mierunbo-budgets", []byte(`[]`)))

	data, err := os.ReadFile(filepath.Join(dir, "mierunbo-budgets.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	// No temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "mierunbo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseBlobStore(t, store)
}

func TestSQLiteStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mierunbo.db")

	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(context.Background(), "blob", []byte("kept")))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	data, err := second.Read(context.Background(), "blob")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Backend: config.BackendMemory}, logger)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
		assert.NoError(t, Close(store))
	})

	t.Run("file", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Backend: config.BackendFile, Dir: t.TempDir()}, logger)
		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, store)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Backend: "redis"}, logger)
		assert.Error(t, err)
	})
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "mierunbo-expenses.json", objectName("mierunbo-expenses"))
	assert.Equal(t, "receipts/e1/r1.jpg", objectName("receipts/e1/r1.jpg"))
	assert.Equal(t, "image/jpeg", contentType("receipts/e1/r1.jpg"))
	assert.Equal(t, "application/json", contentType("mierunbo-expenses.json"))
}
