package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespacesIsolateKeys(t *testing.T) {
	ctx := context.Background()
	root := NewStore(Options{Prefix: "shopadmin"})
	a := root.Namespace("dashboard")
	b := root.Namespace("other")

	require.NoError(t, a.SetJSON(ctx, "k", "one", 0))
	found, err := b.GetJSON(ctx, "k", nil)
	require.NoError(t, err)
	assert.False(t, found)

	var v string
	found, err = root.GetJSON(ctx, "dashboard:k", &v)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "one", v)

	a.Delete(ctx, "k")
	found, _ = a.GetJSON(ctx, "k", nil)
	assert.False(t, found)
}

func TestJSONSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{})

	type view struct {
		IDs []string `json:"ids"`
	}
	original := view{IDs: []string{"a", "b"}}
	require.NoError(t, s.SetJSON(ctx, "v", original, time.Minute))
	original.IDs[0] = "mutated"

	var got view
	found, err := s.GetJSON(ctx, "v", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got.IDs)

	ttl, ok := s.TTL(ctx, "v")
	assert.True(t, ok)
	assert.LessOrEqual(t, ttl, time.Minute)

	found, err = s.GetJSON(ctx, "missing", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshotErrors(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{DefaultTTL: time.Minute})

	assert.Error(t, s.SetJSON(ctx, "bad", make(chan int), 0))

	require.NoError(t, s.SetJSON(ctx, "n", 42, 0))
	var wrong struct{ A string }
	_, err := s.GetJSON(ctx, "n", &wrong)
	assert.Error(t, err)

	ttl, ok := s.TTL(ctx, "n")
	assert.True(t, ok)
	assert.Greater(t, ttl, 50*time.Second)
}
