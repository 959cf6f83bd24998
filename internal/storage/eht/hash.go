package eht

import (
	"encoding/binary"
	"hash/maphash"

	util "github.com/bietkhonhungvandi212/bufferpool/internal/utils"
)

var pageIDSeed = maphash.MakeSeed()

// HashPageID is the default hash function the buffer pool coordinator
// wires into its Table[PageID, FrameID] instance. Correctness of the
// table never depends on this function's distribution, only its
// performance (see Table.Insert) — maphash is the standard library's
// general-purpose hash and needs no collision-resistance guarantee here.
func HashPageID(id util.PageID) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	var h maphash.Hash
	h.SetSeed(pageIDSeed)
	h.Write(buf[:])
	return h.Sum64()
}
