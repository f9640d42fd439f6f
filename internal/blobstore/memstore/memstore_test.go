package memstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/blobstore"
	"github.com/seabeam/echofetch/internal/errs"
)

func TestPutStatGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.PutObject(ctx, "b", "a/b/c.raw", strings.NewReader("payload"), 7, "application/octet-stream")
	require.NoError(t, err)

	info, err := s.StatObject(ctx, "b", "a/b/c.raw")
	require.NoError(t, err)
	assert.EqualValues(t, 7, info.Size)

	obj, err := s.GetObject(ctx, "b", "a/b/c.raw")
	require.NoError(t, err)
	defer obj.Close()
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestStatMissing(t *testing.T) {
	_, err := New().StatObject(context.Background(), "b", "nope")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	s := NewReadOnly()
	s.Seed("b", "k", []byte("x"))

	err := s.PutObject(ctx, "b", "k2", strings.NewReader("y"), 1, "")
	assert.True(t, errs.IsReadOnly(err))

	// Seeded data remains readable.
	_, err = s.StatObject(ctx, "b", "k")
	assert.NoError(t, err)
}

func TestListObjects_Hierarchy(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed("b", "data/raw/Ship_A/S1/EK80/f1.raw", []byte("1"))
	s.Seed("b", "data/raw/Ship_A/S2/EK80/f2.raw", []byte("2"))
	s.Seed("b", "data/raw/Ship_B/S3/EK60/f3.raw", []byte("3"))

	// Non-recursive: common prefixes become IsDir entries.
	dirs, err := s.ListObjects(ctx, "b", blobstore.ListOptions{Prefix: "data/raw/"})
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.True(t, dirs[0].IsDir)
	assert.Equal(t, "data/raw/Ship_A/", dirs[0].Key)
	assert.Equal(t, "data/raw/Ship_B/", dirs[1].Key)

	// Recursive: all objects.
	all, err := s.ListObjects(ctx, "b", blobstore.ListOptions{Prefix: "data/raw/", Recursive: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Seed("b", "k", []byte("x"))

	_, _ = s.StatObject(ctx, "b", "k")
	_, _ = s.StatObject(ctx, "b", "k")
	obj, err := s.GetObject(ctx, "b", "k")
	require.NoError(t, err)
	obj.Close()

	c := s.Counts()
	assert.Equal(t, 2, c.Stat)
	assert.Equal(t, 1, c.Get)
	assert.Equal(t, 0, c.Put)
}
