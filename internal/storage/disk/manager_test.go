package disk

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name          string
		initialPages  int
		expectedError error
		shouldSucceed bool
	}{
		{name: "valid creation with 1 page", initialPages: 1, shouldSucceed: true},
		{name: "valid creation with 10 pages", initialPages: 10, shouldSucceed: true},
		{name: "invalid negative pages", initialPages: -1, expectedError: util.ErrInvalidInitialPages},
		{name: "zero pages", initialPages: 0, expectedError: util.ErrInvalidInitialPages},
		{name: "large but valid page count", initialPages: 1000, shouldSucceed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempFile, cleanup := util.CreateTempFile(t)
			defer cleanup()

			m, err := NewManager(tempFile, tt.initialPages)

			if !tt.shouldSucceed {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, m)
			defer m.Close()

			expectedSize := int64(tt.initialPages) * int64(util.PageSize)
			assert.Equal(t, expectedSize, m.Size)

			_, statErr := os.Stat(tempFile)
			assert.NoError(t, statErr)
		})
	}
}

func TestManagerWriteReadRoundTrip(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	m, err := NewManager(tempFile, 2)
	require.NoError(t, err)
	defer m.Close()

	p := &page.Page{Header: page.PageHeader{PageID: 0}}
	copy(p.Data[:5], []byte("hello"))

	require.NoError(t, m.WritePage(p))

	got, err := m.ReadPage(0)
	require.NoError(t, err)
	assert.Equal(t, util.PageID(0), got.Header.PageID)
	assert.Equal(t, []byte("hello"), got.Data[:5])
}

func TestManagerWriteGrowsBackingFile(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	m, err := NewManager(tempFile, 1)
	require.NoError(t, err)
	defer m.Close()

	p := &page.Page{Header: page.PageHeader{PageID: 5}}
	require.NoError(t, m.WritePage(p))
	assert.GreaterOrEqual(t, m.Size, int64(6)*int64(util.PageSize))

	got, err := m.ReadPage(5)
	require.NoError(t, err)
	assert.Equal(t, util.PageID(5), got.Header.PageID)
}

func TestManagerReadOutOfBounds(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	m, err := NewManager(tempFile, 1)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.ReadPage(50)
	require.ErrorIs(t, err, util.ErrPageOutOfBounds)
}

func TestManagerCloseIdempotent(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	m, err := NewManager(tempFile, 1)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}
