// Package replacer implements the LRU-K frame replacement policy: the
// history list holds frames with fewer than K recorded accesses (treated
// as having infinite backward K-distance); the buffer list holds frames
// with K or more. Eviction always prefers the history list.
package replacer

import (
	"container/list"
	"fmt"
	"sync"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
	"github.com/bietkhonhungvandi212/bufferpool/pkg/logging"
)

// node is the payload of a list.Element in either the history or the
// buffer list.
type node struct {
	frameID     util.FrameID
	accessCount int
	evictable   bool
}

// LRUK tracks access history for up to capacity frames and selects
// eviction victims by maximum backward K-distance, preferring frames
// that have not yet reached K recorded accesses.
type LRUK struct {
	mu sync.Mutex

	k        int
	capacity int

	history *list.List
	buffer  *list.List

	historyIdx map[util.FrameID]*list.Element
	bufferIdx  map[util.FrameID]*list.Element

	evictableCount int
}

// New builds an LRU-K replacer tracking up to capacity frames with
// lookback k.
func New(capacity int, k int) *LRUK {
	if k < 1 {
		panic(util.ErrInvalidK)
	}
	if capacity <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	return &LRUK{
		k:          k,
		capacity:   capacity,
		history:    list.New(),
		buffer:     list.New(),
		historyIdx: make(map[util.FrameID]*list.Element, capacity),
		bufferIdx:  make(map[util.FrameID]*list.Element, capacity),
	}
}

func (r *LRUK) checkFrameID(frameID util.FrameID) {
	if frameID < 0 || int(frameID) >= r.capacity {
		panic(fmt.Sprintf("replacer: frame id %d out of range [0,%d)", frameID, r.capacity))
	}
}

// RecordAccess registers one access to frameID. A new node is created on
// first access (into history); it migrates to the buffer list on its Kth
// access and moves to the buffer head on every access after that; while
// still in history, every access moves it to the history head.
func (r *LRUK) RecordAccess(frameID util.FrameID) {
	r.checkFrameID(frameID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.bufferIdx[frameID]; ok {
		n := el.Value.(*node)
		n.accessCount++
		r.buffer.MoveToFront(el)
		return
	}

	if el, ok := r.historyIdx[frameID]; ok {
		n := el.Value.(*node)
		n.accessCount++
		if n.accessCount >= r.k {
			r.history.Remove(el)
			delete(r.historyIdx, frameID)
			newEl := r.buffer.PushFront(n)
			r.bufferIdx[frameID] = newEl
			return
		}
		r.history.MoveToFront(el)
		return
	}

	if len(r.historyIdx)+len(r.bufferIdx) >= r.capacity {
		logging.Warn("replacer: record_access dropped, replacer at capacity", "frame_id", frameID)
		return
	}

	n := &node{frameID: frameID, accessCount: 1}
	el := r.history.PushFront(n)
	r.historyIdx[frameID] = el
}

// SetEvictable marks frameID evictable or not. A no-op if the frame is
// untracked or already at the requested value.
func (r *LRUK) SetEvictable(frameID util.FrameID, evictable bool) {
	r.checkFrameID(frameID)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.lookupLocked(frameID)
	if n == nil || n.evictable == evictable {
		return
	}

	n.evictable = evictable
	if evictable {
		r.evictableCount++
	} else {
		r.evictableCount--
	}
}

// Remove drops frameID's tracking state. No-op if untracked or not
// evictable — per this module's Open Question (c) decision, the
// "caller bug" case is treated as a no-op rather than a fault.
func (r *LRUK) Remove(frameID util.FrameID) {
	r.checkFrameID(frameID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.historyIdx[frameID]; ok {
		n := el.Value.(*node)
		if !n.evictable {
			return
		}
		r.history.Remove(el)
		delete(r.historyIdx, frameID)
		r.evictableCount--
		return
	}

	if el, ok := r.bufferIdx[frameID]; ok {
		n := el.Value.(*node)
		if !n.evictable {
			return
		}
		r.buffer.Remove(el)
		delete(r.bufferIdx, frameID)
		r.evictableCount--
		return
	}
}

// Evict selects and removes a victim frame, returning ok=false when no
// evictable frame exists. History is scanned from the tail (oldest)
// before buffer, since every history node has an effectively infinite
// backward K-distance relative to any buffer node.
func (r *LRUK) Evict() (util.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.evictableCount == 0 {
		return util.InvalidFrameID, false
	}

	if el := findEvictableFromBack(r.history); el != nil {
		n := el.Value.(*node)
		r.history.Remove(el)
		delete(r.historyIdx, n.frameID)
		r.evictableCount--
		return n.frameID, true
	}

	if el := findEvictableFromBack(r.buffer); el != nil {
		n := el.Value.(*node)
		r.buffer.Remove(el)
		delete(r.bufferIdx, n.frameID)
		r.evictableCount--
		return n.frameID, true
	}

	return util.InvalidFrameID, false
}

// Size reports evictableCount, the replacer's publicly visible size.
func (r *LRUK) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}

// InBufferList reports whether frameID has been promoted past its Kth
// access. Diagnostic only — no BPC operation depends on it.
func (r *LRUK) InBufferList(frameID util.FrameID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bufferIdx[frameID]
	return ok
}

func (r *LRUK) lookupLocked(frameID util.FrameID) *node {
	if el, ok := r.historyIdx[frameID]; ok {
		return el.Value.(*node)
	}
	if el, ok := r.bufferIdx[frameID]; ok {
		return el.Value.(*node)
	}
	return nil
}

func findEvictableFromBack(l *list.List) *list.Element {
	for el := l.Back(); el != nil; el = el.Prev() {
		if el.Value.(*node).evictable {
			return el
		}
	}
	return nil
}
