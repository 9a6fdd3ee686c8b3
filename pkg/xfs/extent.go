package xfs

import "github.com/davidminor/uint128"

// Extent is one decoded entry of a data- or attribute-fork extent list
// (spec.md §3 "Extent record"): a contiguous run of file-offset blocks
// mapped to a contiguous run of filesystem blocks.
type Extent struct {
	Unwritten   bool
	StartOffset uint64 // file offset, in filesystem blocks
	StartBlock  uint64 // filesystem block number
	BlockCount  uint32
}

const (
	extentOffsetBits = 54
	extentBlockBits  = 52
	extentCountBits  = 21
)

// decodeExtent unpacks one 16-byte big-endian extent record. The record is
// carried as a single 128-bit integer (github.com/davidminor/uint128, the
// same type the teacher's compiler used to build these records) with state
// in bit 127, file offset in bits 126-73, start block in bits 72-21 and
// block count in bits 20-0 (spec.md §3).
func decodeExtent(buf []byte) Extent {
	packed := uint128.Uint128{H: be64(buf[0:8]), L: be64(buf[8:16])}

	state := packed.H >> 63

	offset := (packed.H >> 9) & (1<<extentOffsetBits - 1)

	startBlock := ((packed.H & 0x1FF) << 43) | (packed.L >> 21)

	count := uint32(packed.L & (1<<extentCountBits - 1))

	return Extent{
		Unwritten:   state == extentStateUnwritten,
		StartOffset: offset,
		StartBlock:  startBlock,
		BlockCount:  count,
	}
}

// decodeExtentList decodes every 16-byte record in buf, in file-offset
// order as stored (spec.md §4.5: extent lists are required non-overlapping
// and sorted by StartOffset).
func decodeExtentList(buf []byte) ([]Extent, error) {
	if len(buf)%16 != 0 {
		return nil, corrupt("extent list length %d is not a multiple of 16", len(buf))
	}
	n := len(buf) / 16
	out := make([]Extent, n)
	var prevEnd uint64
	for i := 0; i < n; i++ {
		e := decodeExtent(buf[i*16:])
		if i > 0 && e.StartOffset < prevEnd {
			return nil, corrupt("extent list: entry %d offset %d overlaps previous end %d", i, e.StartOffset, prevEnd)
		}
		prevEnd = e.StartOffset + uint64(e.BlockCount)
		out[i] = e
	}
	return out, nil
}

// findExtent returns the extent covering fileBlock, if any (spec.md §6
// "map a file-offset block to a filesystem block").
func findExtent(extents []Extent, fileBlock uint64) (Extent, bool) {
	for _, e := range extents {
		if fileBlock >= e.StartOffset && fileBlock < e.StartOffset+uint64(e.BlockCount) {
			return e, true
		}
	}
	return Extent{}, false
}
