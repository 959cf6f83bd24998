package eht

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHash(k uint64) uint64 { return k }

func TestFindInsertRemove(t *testing.T) {
	tbl := New[uint64, string](2, identityHash)

	_, ok := tbl.Find(1)
	assert.False(t, ok)

	require.NoError(t, tbl.Insert(1, "a"))
	v, ok := tbl.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	require.NoError(t, tbl.Insert(1, "b"))
	v, ok = tbl.Find(1)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	assert.True(t, tbl.Remove(1))
	_, ok = tbl.Find(1)
	assert.False(t, ok)
	assert.False(t, tbl.Remove(1))
}

func TestSplitOnOverflow(t *testing.T) {
	tbl := New[uint64, string](2, identityHash)

	// bucketCapacity=2: keys 0 and 4 hash to the same slot at global
	// depth 0/1 (low bits equal), forcing a split once a third distinct
	// key collides with the same low bits.
	require.NoError(t, tbl.Insert(0, "v0"))
	require.NoError(t, tbl.Insert(4, "v4"))
	require.NoError(t, tbl.Insert(8, "v8"))

	want := map[uint64]string{0: "v0", 4: "v4", 8: "v8"}
	for k, expected := range want {
		v, ok := tbl.Find(k)
		require.True(t, ok, "key %d should be found", k)
		assert.Equal(t, expected, v)
	}
	assert.GreaterOrEqual(t, tbl.GlobalDepth(), 1)
}

// TestSixteenDistinctLowBits reproduces the spec's concrete scenario:
// inserting 16 keys whose low four hash bits are all distinct into a
// table with bucket_capacity=2 must settle at global_depth=3 with every
// bucket holding exactly two entries.
func TestSixteenDistinctLowBits(t *testing.T) {
	tbl := New[uint64, int](2, identityHash)

	for i := uint64(0); i < 16; i++ {
		require.NoError(t, tbl.Insert(i, int(i)))
	}

	assert.Equal(t, 3, tbl.GlobalDepth())
	assert.Equal(t, 8, tbl.BucketCount())

	dirSize := 1 << tbl.GlobalDepth()
	for i := 0; i < dirSize; i++ {
		ld, err := tbl.LocalDepth(i)
		require.NoError(t, err)
		assert.LessOrEqual(t, ld, tbl.GlobalDepth())
	}

	for i := uint64(0); i < 16; i++ {
		v, ok := tbl.Find(i)
		require.True(t, ok)
		assert.Equal(t, int(i), v)
	}

	// remove half, re-insert, invariant must still hold: every find
	// returns its inserted value.
	for i := uint64(0); i < 16; i += 2 {
		assert.True(t, tbl.Remove(i))
	}
	for i := uint64(0); i < 16; i += 2 {
		require.NoError(t, tbl.Insert(i, int(i)))
	}
	for i := uint64(0); i < 16; i++ {
		v, ok := tbl.Find(i)
		require.True(t, ok)
		assert.Equal(t, int(i), v)
	}
}

func TestLocalDepthOutOfRange(t *testing.T) {
	tbl := New[uint64, string](2, identityHash)
	_, err := tbl.LocalDepth(5)
	require.Error(t, err)
}

func TestBucketCount(t *testing.T) {
	tbl := New[uint64, string](2, identityHash)
	assert.Equal(t, 1, tbl.BucketCount())

	require.NoError(t, tbl.Insert(0, "a"))
	require.NoError(t, tbl.Insert(4, "b"))
	require.NoError(t, tbl.Insert(8, "c"))
	assert.Greater(t, tbl.BucketCount(), 1)
}
