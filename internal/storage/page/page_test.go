package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := CreateTestPage(util.PageID(7), []byte("round trip payload"))
	p.Header.SetDirtyFlag()

	buf := p.Serialize()
	require.Len(t, buf, util.PageSize)

	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, util.PageID(7), got.Header.PageID)
	assert.True(t, got.Header.IsDirty())
	assert.Equal(t, p.Data, got.Data)
}

func TestDeserializeDetectsChecksumMismatch(t *testing.T) {
	p := CreateTestPage(util.PageID(1), []byte("abc"))
	buf := p.Serialize()

	buf[HEADER_SIZE] ^= 0xFF // corrupt one data byte after checksum was stamped

	_, err := Deserialize(buf)
	require.ErrorIs(t, err, util.ErrChecksumMismatch)
}

func TestDeserializeRejectsWrongSize(t *testing.T) {
	_, err := Deserialize(make([]byte, 10))
	require.ErrorIs(t, err, util.ErrInvalidPageSize)
}

func TestPinDirtyFlagHelpers(t *testing.T) {
	var h PageHeader
	assert.False(t, h.IsDirty())
	assert.False(t, h.IsPinned())

	h.SetDirtyFlag()
	h.SetPinnedFlag()
	assert.True(t, h.IsDirty())
	assert.True(t, h.IsPinned())

	h.ClearDirtyFlag()
	assert.False(t, h.IsDirty())
	assert.True(t, h.IsPinned())

	h.ClearPinnedFlag()
	assert.False(t, h.IsPinned())
}
