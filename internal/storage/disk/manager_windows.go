//go:build windows

package disk

import (
	"fmt"
	"syscall"
	"unsafe"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

// Base on: https://github.com/etcd-io/bbolt/blob/main/bolt_windows.go

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

	if m.Data != nil {
		if err := m.unmap(); err != nil {
			return err
		}
	}

	if err := m.File.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}
	sizehi := uint32(size >> 32)
	sizelo := uint32(size)
	h, err := syscall.CreateFileMapping(syscall.Handle(m.File.Fd()), nil, syscall.PAGE_READWRITE, sizehi, sizelo, nil)
	if err != nil {
		return fmt.Errorf("create mapping: %w", err)
	}
	ptr, err := syscall.MapViewOfFile(h, syscall.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		if ce := syscall.CloseHandle(h); ce != nil {
			return fmt.Errorf("map view: %w (and close handle: %v)", err, ce)
		}
		return fmt.Errorf("map view: %w", err)
	}
	m.mapping = uintptr(h)
	m.Data = (*[util.MAX_MAP_SIZE]byte)(unsafe.Pointer(ptr))[:size:size]
	m.Size = size
	return nil
}

func (m *Manager) unmap() error {
	if m.Data == nil {
		return nil
	}

	addr := uintptr(unsafe.Pointer(&m.Data[0]))
	var err error
	if e := syscall.UnmapViewOfFile(addr); e != nil {
		err = fmt.Errorf("unmap: %w", e)
	}
	if m.mapping != 0 {
		if e := syscall.CloseHandle(syscall.Handle(m.mapping)); e != nil && err == nil {
			err = fmt.Errorf("close mapping handle: %w", e)
		}
		m.mapping = 0
	}

	m.Data = nil
	m.Size = 0
	return err
}

func (m *Manager) readAt(offset int64, buf []byte) error {
	copy(buf, m.Data[offset:offset+int64(len(buf))])
	return nil
}

func (m *Manager) writeAt(offset int64, buf []byte) error {
	copy(m.Data[offset:], buf)
	return nil
}

func (m *Manager) closePlatform() error {
	return m.unmap()
}
