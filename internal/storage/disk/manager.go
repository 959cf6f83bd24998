package disk

import (
	"errors"
	"fmt"
	"os"

	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/page"
	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

// Filer is the disk collaborator's contract: page-sized read/write by
// identifier. The buffer pool coordinator treats this as opaque; it owns
// no layout beyond what Manager implements here.
type Filer interface {
	ReadPage(pageId util.PageID) (*page.Page, error)
	WritePage(p *page.Page) error
}

/**
* Manager reads and writes fixed-size pages to/from a backing file. On
* Windows the file is mapped into memory (see manager_windows.go); on
* every other platform it is accessed by plain offset reads/writes (see
* manager_unix.go) since BusTub's own disk manager contract is nothing
* more than ReadPage(id, buf)/WritePage(id, buf) over a flat file.
**/
type Manager struct {
	File *os.File
	Size int64

	// Data backs the mmap-based Windows implementation only; left nil on
	// every other platform.
	Data    []byte
	mapping uintptr
}

func NewManager(path string, initialPages int) (*Manager, error) {
	if initialPages <= 0 {
		return nil, util.ErrInvalidInitialPages
	}

	initialSize := int64(initialPages) * int64(util.PageSize)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	m := &Manager{File: f}

	if err := m.grow(initialSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("map file fail: %w", err)
	}

	return m, nil
}

// ReadPage fills a page-sized buffer from disk and deserializes it.
func (m *Manager) ReadPage(pageId util.PageID) (*page.Page, error) {
	offset := int64(pageId) * int64(util.PageSize)
	if offset+util.PageSize > m.Size {
		return nil, util.ErrPageOutOfBounds
	}

	buf := make([]byte, util.PageSize)
	if err := m.readAt(offset, buf); err != nil {
		return nil, fmt.Errorf("read page %d: %w", pageId, err)
	}

	p, err := page.Deserialize(buf)
	if err != nil {
		return nil, fmt.Errorf("deserialize page %d: %w", pageId, err)
	}

	return p, nil
}

// WritePage serializes a page and persists it, growing the backing file
// if the page falls past the current mapped/truncated size.
func (m *Manager) WritePage(p *page.Page) error {
	offset := int64(p.Header.PageID) * int64(util.PageSize)
	if offset+int64(util.PageSize) > m.Size {
		newSize := max(m.Size*2, offset+int64(util.PageSize))
		if newSize > util.MAX_MAP_SIZE {
			return util.ErrMaxMapSizeExceeded
		}

		if err := m.grow(newSize); err != nil {
			return fmt.Errorf("[WritePage] grow file fail: %w", err)
		}
	}

	return m.writeAt(offset, p.Serialize())
}

// Close syncs and releases the backing file. Idempotent.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	var err error
	if e := m.closePlatform(); e != nil {
		err = errors.Join(err, fmt.Errorf("unmap file fail: %w", e))
	}

	if m.File != nil {
		if e := m.File.Sync(); e != nil {
			err = errors.Join(err, fmt.Errorf("sync file: %w", e))
		}
		if e := m.File.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("close file: %w", e))
		}
		m.File = nil
	}
	return err
}
