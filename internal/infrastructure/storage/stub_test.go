package storage

import (
	"context"
	"testing"

	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlobStore_PutOverwrites(t *testing.T) {
	s := NewMemoryBlobStore("https://files.example.com/")
	ctx := context.Background()

	url, err := s.Put(ctx, "u1/logo.png", []byte("v1"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/u1/logo.png", url)

	data := []byte("v2")
	_, err = s.Put(ctx, "u1/logo.png", data, "image/png")
	require.NoError(t, err)
	data[0] = 'x'

	obj, ok := s.Get("u1/logo.png")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), obj.Data, "stored bytes are a copy")
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryBlobStore_Delete(t *testing.T) {
	s := NewMemoryBlobStore("")
	ctx := context.Background()

	url, err := s.Put(ctx, "k", []byte("x"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, DefaultMemoryBaseURL+"/k", url)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"), "deleting twice is fine")
	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestMemoryBlobStore_EmptyKey(t *testing.T) {
	s := NewMemoryBlobStore("")
	_, err := s.Put(context.Background(), "", nil, "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(context.Background(), ""))
}

func TestNewBlobStore_Drivers(t *testing.T) {
	store, err := NewBlobStore(context.Background(), &config.StorageConfig{Driver: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBlobStore{}, store)

	_, err = NewBlobStore(context.Background(), &config.StorageConfig{Driver: "ftp"}, nil)
	assert.ErrorContains(t, err, "unknown storage driver")
}
