package eht

import (
	"sync"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

// maxSplitAttempts bounds how many times Insert may split before giving
// up with "capacity exceeded" — only reachable when more than
// bucketCapacity keys collide on every directory bit pattern probed.
const maxSplitAttempts = 64

type entry[K comparable, V any] struct {
	key K
	val V
}

type bucket[K comparable, V any] struct {
	mu         sync.RWMutex
	entries    []entry[K, V]
	localDepth int
	capacity   int
}

// Table is a concurrent extendible hash table mapping K to V — in the
// buffer pool coordinator's use, PageId to FrameId. A single directory
// lock serializes structural changes (split/double); per-bucket
// reader/writer locks allow concurrent point operations on disjoint
// buckets. Callers must never hold a bucket lock while acquiring the
// directory lock (hand-over-hand order: directory, then bucket).
type Table[K comparable, V any] struct {
	dirMu       sync.Mutex
	dir         []*bucket[K, V]
	globalDepth int
	capacity    int
	hashFn      func(K) uint64
}

// New builds a table with one bucket of the given capacity at global
// depth 0. hashFn is the canonical hash of the key type; the table's
// correctness never depends on its uniformity, only its performance.
func New[K comparable, V any](bucketCapacity int, hashFn func(K) uint64) *Table[K, V] {
	if bucketCapacity <= 0 {
		panic("eht: bucket capacity must be positive")
	}
	root := &bucket[K, V]{capacity: bucketCapacity, localDepth: 0}
	return &Table[K, V]{
		dir:      []*bucket[K, V]{root},
		capacity: bucketCapacity,
		hashFn:   hashFn,
	}
}

// indexOfLocked computes the directory index for key. Caller must hold
// dirMu.
func (t *Table[K, V]) indexOfLocked(key K) int {
	mask := uint64(1)<<uint(t.globalDepth) - 1
	return int(t.hashFn(key) & mask)
}

// Find returns the value stored for key, if any.
func (t *Table[K, V]) Find(key K) (V, bool) {
	var zero V

	t.dirMu.Lock()
	idx := t.indexOfLocked(key)
	b := t.dir[idx]
	b.mu.RLock()
	t.dirMu.Unlock()
	defer b.mu.RUnlock()

	for _, e := range b.entries {
		if e.key == key {
			return e.val, true
		}
	}
	return zero, false
}

// Insert stores (key, value), overwriting any existing value for key.
// It splits and retries internally when the target bucket is full,
// returning ErrEHTCapacityExceeded only if splitting cannot make room
// after maxSplitAttempts — which happens only when more keys hash
// identically than bucketCapacity allows.
func (t *Table[K, V]) Insert(key K, value V) error {
	for attempt := 0; ; attempt++ {
		if attempt >= maxSplitAttempts {
			return util.ErrEHTCapacityExceeded
		}

		t.dirMu.Lock()
		idx := t.indexOfLocked(key)
		b := t.dir[idx]
		b.mu.Lock()
		t.dirMu.Unlock()

		if done := t.tryWriteLocked(b, key, value); done {
			b.mu.Unlock()
			return nil
		}
		b.mu.Unlock()

		extracted, retry, err := t.splitOnce(key)
		if err != nil {
			return err
		}
		if !retry {
			// another goroutine already freed space for us; try the
			// original insertion again without having split anything.
			continue
		}
		for _, e := range extracted {
			if err := t.Insert(e.key, e.val); err != nil {
				return err
			}
		}
	}
}

// tryWriteLocked attempts to overwrite or append key/value into an
// already write-locked, non-full bucket. Returns false if the bucket is
// full and a split is required.
func (t *Table[K, V]) tryWriteLocked(b *bucket[K, V], key K, value V) bool {
	for i := range b.entries {
		if b.entries[i].key == key {
			b.entries[i].val = value
			return true
		}
	}
	if len(b.entries) < b.capacity {
		b.entries = append(b.entries, entry[K, V]{key: key, val: value})
		return true
	}
	return false
}

// splitOnce re-acquires the directory lock (top-down order preserved —
// the bucket lock from the caller's failed attempt was already
// released), re-verifies the bucket is still full, and if so performs
// exactly one split: bumps local depth, doubles the directory if
// necessary, allocates the sibling bucket, and redirects the aliased
// directory slots. The extracted entries are returned for the caller to
// re-insert with no locks held. retry=false means a concurrent
// goroutine already resolved the overflow; the caller should just retry
// its own insertion from scratch.
func (t *Table[K, V]) splitOnce(key K) (extracted []entry[K, V], retry bool, err error) {
	t.dirMu.Lock()
	idx := t.indexOfLocked(key)
	old := t.dir[idx]
	old.mu.Lock()
	defer old.mu.Unlock()
	defer t.dirMu.Unlock()

	if len(old.entries) < old.capacity {
		return nil, false, nil
	}

	old.localDepth++
	if old.localDepth > t.globalDepth {
		t.doubleDirectoryLocked()
	}

	pair := idx ^ (1 << uint(old.localDepth-1))
	sibling := &bucket[K, V]{capacity: t.capacity, localDepth: old.localDepth}

	mask := 1<<uint(old.localDepth) - 1
	for j := range t.dir {
		if t.dir[j] == old && (j&mask) == (pair&mask) {
			t.dir[j] = sibling
		}
	}

	extracted = old.entries
	old.entries = nil

	return extracted, true, nil
}

// doubleDirectoryLocked doubles the directory length, aliasing every new
// slot i+oldLen to the bucket currently at slot i, and increments
// globalDepth. Caller must hold dirMu.
func (t *Table[K, V]) doubleDirectoryLocked() {
	t.dir = append(t.dir, t.dir...)
	t.globalDepth++
}

// Remove deletes key if present, reporting whether it was found.
func (t *Table[K, V]) Remove(key K) bool {
	t.dirMu.Lock()
	idx := t.indexOfLocked(key)
	b := t.dir[idx]
	b.mu.Lock()
	t.dirMu.Unlock()
	defer b.mu.Unlock()

	for i, e := range b.entries {
		if e.key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// GlobalDepth returns the table's current global depth.
func (t *Table[K, V]) GlobalDepth() int {
	t.dirMu.Lock()
	defer t.dirMu.Unlock()
	return t.globalDepth
}

// LocalDepth returns the local depth of the bucket referenced by
// dirIndex.
func (t *Table[K, V]) LocalDepth(dirIndex int) (int, error) {
	t.dirMu.Lock()
	defer t.dirMu.Unlock()
	if dirIndex < 0 || dirIndex >= len(t.dir) {
		return 0, util.ErrIndexOutOfRange
	}
	b := t.dir[dirIndex]
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.localDepth, nil
}

// BucketCount returns the number of distinct buckets currently
// referenced by the directory (buckets aliased by several slots count
// once).
func (t *Table[K, V]) BucketCount() int {
	t.dirMu.Lock()
	defer t.dirMu.Unlock()
	seen := make(map[*bucket[K, V]]struct{}, len(t.dir))
	for _, b := range t.dir {
		seen[b] = struct{}{}
	}
	return len(seen)
}
