// Package buffer implements the buffer pool coordinator: it owns the
// fixed frame array and free list, and composes the extendible hash
// table (page_id -> frame_id) with the LRU-K replacer to serve
// new/fetch/unpin/flush/delete page operations over a disk collaborator.
package buffer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bietkhonhungvandi212/bufferpool/internal/config"
	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/disk"
	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/eht"
	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/page"
	"github.com/bietkhonhungvandi212/bufferpool/internal/storage/replacer"
	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
	"github.com/bietkhonhungvandi212/bufferpool/pkg/logging"
)

// Pool is the buffer pool coordinator (BPC). A single mutex serializes
// every operation; calls into the EHT and the replacer each take and
// fully release their own locks while that mutex is held, never two of
// the subordinate locks at once (see package eht and replacer).
type Pool struct {
	mu sync.Mutex

	frames   []page.Page
	pinCount []atomic.Int32
	dirty    []bool
	freeList []util.FrameID

	index    *eht.Table[util.PageID, util.FrameID]
	replacer *replacer.LRUK

	nextPageID atomic.Uint64

	disk disk.Filer
	cfg  config.Config

	hits   atomic.Int64
	misses atomic.Int64
}

// New builds a coordinator over size frames backed by disk.
func New(size int, backing disk.Filer, opts ...config.Option) *Pool {
	if size <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	cfg := config.Apply(opts...)

	p := &Pool{
		frames:   make([]page.Page, size),
		pinCount: make([]atomic.Int32, size),
		dirty:    make([]bool, size),
		freeList: make([]util.FrameID, size),
		index:    eht.New[util.PageID, util.FrameID](cfg.BucketCapacity, eht.HashPageID),
		replacer: replacer.New(size, cfg.K),
		disk:     backing,
		cfg:      cfg,
	}
	for i := range p.frames {
		p.frames[i].Header.PageID = util.InvalidPageID
		p.freeList[i] = util.FrameID(size - 1 - i)
	}
	return p
}

// PoolSize returns the number of frames the coordinator manages.
func (p *Pool) PoolSize() int {
	return len(p.frames)
}

// acquireFrame implements the shared "acquire a frame" helper: free list
// first, else ask the replacer to evict. Caller must hold p.mu.
func (p *Pool) acquireFrame() (util.FrameID, bool) {
	if n := len(p.freeList); n > 0 {
		fid := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return fid, true
	}
	return p.replacer.Evict()
}

// resetFrameLocked evicts whatever page currently occupies fid (flushing
// if dirty, erasing it from the EHT) and zeroes the frame. Caller must
// hold p.mu.
func (p *Pool) resetFrameLocked(fid util.FrameID) error {
	pid := p.frames[fid].Header.PageID
	if pid != util.InvalidPageID {
		p.index.Remove(pid)
		if p.dirty[fid] {
			if err := p.disk.WritePage(&p.frames[fid]); err != nil {
				return fmt.Errorf("flush frame %d on reset: %w", fid, err)
			}
		}
	}

	p.frames[fid] = page.Page{}
	p.frames[fid].Header.PageID = util.InvalidPageID
	p.dirty[fid] = false
	p.pinCount[fid].Store(0)
	return nil
}

// NewPage allocates a fresh page_id, binds it to a frame, and returns the
// frame pinned once. Returns ok=false when no frame and no evictable
// victim is available.
func (p *Pool) NewPage() (util.PageID, *page.Page, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fid, ok := p.acquireFrame()
	if !ok {
		return util.InvalidPageID, nil, false
	}

	if err := p.resetFrameLocked(fid); err != nil {
		logging.Error("new_page: reset frame failed", "frame_id", fid, "err", err)
		return util.InvalidPageID, nil, false
	}

	pid := util.PageID(p.nextPageID.Add(1) - 1)

	p.frames[fid].Header.PageID = pid
	p.pinCount[fid].Store(1)
	p.dirty[fid] = false

	if err := p.index.Insert(pid, fid); err != nil {
		logging.Error("new_page: eht insert failed", "page_id", pid, "err", err)
		return util.InvalidPageID, nil, false
	}

	p.replacer.RecordAccess(fid)
	p.replacer.SetEvictable(fid, false)

	return pid, &p.frames[fid], true
}

// FetchPage returns the frame holding page_id, pinning it once more. On a
// miss it acquires a frame, loads the page from disk, and pins it.
// Returns ok=false on capacity exhaustion or a disk read failure.
func (p *Pool) FetchPage(pid util.PageID) (*page.Page, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if fid, found := p.index.Find(pid); found {
		p.hits.Add(1)
		prev := p.pinCount[fid].Add(1) - 1
		p.replacer.RecordAccess(fid)
		if prev == 0 {
			p.replacer.SetEvictable(fid, false)
		}
		return &p.frames[fid], true
	}

	p.misses.Add(1)
	fid, ok := p.acquireFrame()
	if !ok {
		return nil, false
	}

	if err := p.resetFrameLocked(fid); err != nil {
		logging.Error("fetch_page: reset frame failed", "frame_id", fid, "err", err)
		return nil, false
	}

	p.frames[fid].Header.PageID = pid
	p.pinCount[fid].Store(1)
	p.dirty[fid] = false

	if err := p.index.Insert(pid, fid); err != nil {
		logging.Error("fetch_page: eht insert failed", "page_id", pid, "err", err)
		return nil, false
	}

	loaded, err := p.disk.ReadPage(pid)
	if err != nil {
		logging.Error("fetch_page: disk read failed", "page_id", pid, "err", err)
		// Undo the speculative EHT insert and pin so the frame is left as
		// a clean, unresident free frame rather than a stuck resident.
		p.index.Remove(pid)
		p.pinCount[fid].Store(0)
		p.frames[fid].Header.PageID = util.InvalidPageID
		p.freeList = append(p.freeList, fid)
		return nil, false
	}
	p.frames[fid] = *loaded

	p.replacer.RecordAccess(fid)
	p.replacer.SetEvictable(fid, false)

	return &p.frames[fid], true
}

// UnpinPage decrements page_id's pin count, marking it evictable once it
// reaches zero. dirtyHint, if true, sets the dirty flag (it is never
// cleared here). Returns false if page_id is not resident or already
// unpinned.
func (p *Pool) UnpinPage(pid util.PageID, dirtyHint bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	fid, ok := p.index.Find(pid)
	if !ok {
		return false
	}
	if p.pinCount[fid].Load() == 0 {
		return false
	}

	if p.pinCount[fid].Add(-1) == 0 {
		p.replacer.SetEvictable(fid, true)
	}

	if dirtyHint {
		p.dirty[fid] = true
		p.frames[fid].Header.SetDirtyFlag()
	}
	return true
}

// FlushPage writes page_id's frame to disk and clears its dirty flag.
// Returns false if the page is not resident.
func (p *Pool) FlushPage(pid util.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	fid, ok := p.index.Find(pid)
	if !ok {
		return false
	}
	return p.flushFrameLocked(fid)
}

func (p *Pool) flushFrameLocked(fid util.FrameID) bool {
	if err := p.disk.WritePage(&p.frames[fid]); err != nil {
		logging.Error("flush: write failed", "frame_id", fid, "err", err)
		return false
	}
	p.dirty[fid] = false
	p.frames[fid].Header.ClearDirtyFlag()
	return true
}

// FlushAll writes every resident, dirty-or-not frame to disk and clears
// dirty flags.
func (p *Pool) FlushAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for fid := range p.frames {
		if p.frames[fid].Header.PageID == util.InvalidPageID {
			continue
		}
		p.flushFrameLocked(util.FrameID(fid))
	}
}

// DeletePage removes page_id from the pool entirely, returning its frame
// to the free list. Returns true if page_id was already absent. Returns
// false if the page is still pinned.
func (p *Pool) DeletePage(pid util.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	fid, ok := p.index.Find(pid)
	if !ok {
		return true
	}
	if p.pinCount[fid].Load() > 0 {
		return false
	}

	if p.dirty[fid] {
		if !p.flushFrameLocked(fid) {
			return false
		}
	}

	p.index.Remove(pid)
	p.replacer.Remove(fid)

	p.frames[fid] = page.Page{}
	p.frames[fid].Header.PageID = util.InvalidPageID
	p.pinCount[fid].Store(0)
	p.freeList = append(p.freeList, fid)
	return true
}

// PinCount reports the current pin count of a resident page (diagnostic;
// reads without the coordinator lock held longer than the EHT lookup).
func (p *Pool) PinCount(pid util.PageID) (int32, bool) {
	p.mu.Lock()
	fid, ok := p.index.Find(pid)
	p.mu.Unlock()
	if !ok {
		return 0, false
	}
	return p.pinCount[fid].Load(), true
}

// IsDirty reports whether a resident page's frame is marked dirty.
func (p *Pool) IsDirty(pid util.PageID) (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fid, ok := p.index.Find(pid)
	if !ok {
		return false, false
	}
	return p.dirty[fid], true
}

// Stats is a point-in-time snapshot of pool occupancy and hit/miss
// counters.
type Stats struct {
	PoolSize    int
	UsedFrames  int
	PinnedPages int
	DirtyPages  int
	Hits        int64
	Misses      int64
}

// Stats reports current pool occupancy alongside cumulative hit/miss
// counts.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		PoolSize: len(p.frames),
		Hits:     p.hits.Load(),
		Misses:   p.misses.Load(),
	}
	for fid := range p.frames {
		if p.frames[fid].Header.PageID == util.InvalidPageID {
			continue
		}
		s.UsedFrames++
		if p.pinCount[fid].Load() > 0 {
			s.PinnedPages++
		}
		if p.dirty[fid] {
			s.DirtyPages++
		}
	}
	return s
}

// Reset restores the pool to its just-constructed state. Exists for test
// harnesses that want a clean slate between property-test iterations
// without reopening the disk collaborator.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := len(p.frames)
	p.frames = make([]page.Page, size)
	p.pinCount = make([]atomic.Int32, size)
	p.dirty = make([]bool, size)
	p.freeList = p.freeList[:0]
	for i := range p.frames {
		p.frames[i].Header.PageID = util.InvalidPageID
		p.freeList = append(p.freeList, util.FrameID(size-1-i))
	}

	p.index = eht.New[util.PageID, util.FrameID](p.cfg.BucketCapacity, eht.HashPageID)
	p.replacer = replacer.New(size, p.cfg.K)
	p.nextPageID.Store(0)
	p.hits.Store(0)
	p.misses.Store(0)
}
