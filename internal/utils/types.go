package util

// PageID represents a unique page identifier. A PageID is monotonically
// allocated by the buffer pool coordinator when it creates a new page.
type PageID uint64

// InvalidPageID is the sentinel that denotes "no page" / "none". It must
// round-trip unchanged through every BPC operation that returns a PageID.
const InvalidPageID PageID = ^PageID(0)

// FrameID identifies a slot in the buffer pool's fixed frame array, in
// the range [0, pool_size).
type FrameID int

// InvalidFrameID is the sentinel frame index, used the same way as
// InvalidPageID.
const InvalidFrameID FrameID = -1

// PageSize represents the standard page size (4KB)
const PageSize = 4096

// MAX_MAP_SIZE bounds how large the disk collaborator's backing mapping
// may grow; chosen well above any test workload (1GiB).
const MAX_MAP_SIZE = 1 << 30
