package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	buf := []byte("v1")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'x' // callers may reuse their buffers

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, s.Set(ctx, "k", []byte("v2")))
	got, _, _ = s.Get(ctx, "k")
	assert.Equal(t, "v2", string(got))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, BackendMemory, nil, nil, storageConfig())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(ctx, BackendSQL, nil, nil, storageConfig())
	assert.Error(t, err)

	_, err = New(ctx, BackendObject, nil, nil, storageConfig())
	assert.Error(t, err)

	_, err = New(ctx, "etcd", nil, nil, storageConfig())
	assert.ErrorContains(t, err, "unknown durable backend")
}
