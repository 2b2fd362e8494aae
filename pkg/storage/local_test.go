package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "activity/T1/b.yaml", []byte("b")))
	require.NoError(t, s.Write(ctx, "activity/T1/a.yaml", []byte("a")))
	require.NoError(t, s.Write(ctx, "activity/T2/c.yaml", []byte("c")))

	paths, err := s.List(ctx, "activity/T1")
	require.NoError(t, err)
	assert.Equal(t, []string{"activity/T1/a.yaml", "activity/T1/b.yaml"}, paths)

	data, err := s.Read(ctx, "activity/T1/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	ok, err := s.Exists(ctx, "activity/T2/c.yaml")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "activity/T2/c.yaml"))
	_, err = s.Read(ctx, "activity/T2/c.yaml")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, "activity/T2/c.yaml"), ErrNotFound))

	paths, err = s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLocalStorageStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../../escape.yaml", []byte("x")))
	ok, err := s.Exists(ctx, "escape.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}
