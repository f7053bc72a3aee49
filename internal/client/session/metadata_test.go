package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadata_GetSetDelete(t *testing.T) {
	s, err := OpenSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	r := s.meta
	ctx := context.Background()

	v, err := r.get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v) // (nil, nil) when the row is missing

	require.NoError(t, r.set(ctx, "k", []byte("old")))
	require.NoError(t, r.set(ctx, "k", []byte("new"))) // upsert

	v, err = r.get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)

	require.NoError(t, r.delete(ctx, "k"))
	require.NoError(t, r.delete(ctx, "k"))

	v, err = r.get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)
}
