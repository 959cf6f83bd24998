package replacer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

func TestRecordAccessHistoryThenBuffer(t *testing.T) {
	r := New(3, 2)

	r.RecordAccess(0)
	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())

	// second access reaches K=2: migrates to buffer, still evictable.
	r.RecordAccess(0)
	assert.Equal(t, 1, r.Size())

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(0), victim)
	assert.Equal(t, 0, r.Size())
}

func TestEvictPrefersHistoryOverBuffer(t *testing.T) {
	r := New(3, 2)

	// frame 1 reaches K accesses -> buffer list.
	r.RecordAccess(1)
	r.RecordAccess(1)
	r.SetEvictable(1, true)

	// frame 2 only ever accessed once -> stays in history (infinite
	// backward k-distance), must be preferred for eviction.
	r.RecordAccess(2)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(2), victim)
}

func TestSetEvictableNoopWhenUnchanged(t *testing.T) {
	r := New(2, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, false) // already non-evictable after creation
	assert.Equal(t, 0, r.Size())
	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())
	r.SetEvictable(0, true) // no-op, already true
	assert.Equal(t, 1, r.Size())
}

func TestRemoveNonEvictableIsNoop(t *testing.T) {
	r := New(2, 2)
	r.RecordAccess(0) // created non-evictable
	r.Remove(0)       // no-op: not evictable
	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())
	r.Remove(0)
	assert.Equal(t, 0, r.Size())
}

func TestEvictEmptyReplacerReturnsFalse(t *testing.T) {
	r := New(2, 2)
	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestRecordAccessAtCapacityOnTrackedFrame(t *testing.T) {
	r := New(1, 2)
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	// the replacer already tracks `capacity` frames; an access to a frame
	// it already tracks is still recorded (the at-capacity drop applies
	// only to untracked frame ids) and the evictable size is unchanged.
	r.RecordAccess(0)
	assert.Equal(t, 1, r.Size())
}

// TestThreeAccessesLandsInBuffer mirrors the spec's concrete scenario 2:
// new_page -> unpin -> fetch -> unpin -> fetch -> unpin drives three
// RecordAccess calls; after the third the node must be in the buffer
// list (K=2).
func TestThreeAccessesLandsInBuffer(t *testing.T) {
	r := New(1, 2)
	r.RecordAccess(0)
	r.RecordAccess(0)
	r.RecordAccess(0)
	r.SetEvictable(0, true)

	el, inBuffer := r.bufferIdx[0]
	assert.True(t, inBuffer)
	assert.Equal(t, 3, el.Value.(*node).accessCount)
	_, inHistory := r.historyIdx[0]
	assert.False(t, inHistory)
}
