package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPointer(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPointer()

	_, _, err := p.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Commit(ctx, 1, "a"))
	assert.ErrorIs(t, p.Commit(ctx, 1, "b"), ErrConcurrentModification)
	assert.ErrorIs(t, p.Commit(ctx, 3, "b"), ErrConcurrentModification)
	require.NoError(t, p.Commit(ctx, 2, "b"))

	name, version, err := p.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", name)
	assert.Equal(t, uint64(2), version)
}
