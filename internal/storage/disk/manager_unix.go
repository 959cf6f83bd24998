//go:build !windows

package disk

import (
	"fmt"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

// grow extends the backing file to size via truncate; pages are read and
// written by plain offset I/O rather than a memory mapping, matching the
// disk collaborator's read_page/write_page contract directly.
func (m *Manager) grow(size int64) error {
	if m.File == nil {
		return util.ErrFileManagerNil
	}
	if size <= 0 {
		return util.ErrInvalidInitialPages
	}
	if size > util.MAX_MAP_SIZE {
		return util.ErrMaxMapSizeExceeded
	}

	if err := m.File.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}
	m.Size = size
	return nil
}

func (m *Manager) readAt(offset int64, buf []byte) error {
	_, err := m.File.ReadAt(buf, offset)
	return err
}

func (m *Manager) writeAt(offset int64, buf []byte) error {
	_, err := m.File.WriteAt(buf, offset)
	return err
}

func (m *Manager) closePlatform() error {
	return nil
}
