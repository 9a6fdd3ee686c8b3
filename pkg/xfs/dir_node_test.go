package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataBlock writes a single data-format directory block containing one
// entry at dataHeaderSize(v), returning the leaf-array address (byte offset
// divided by 8) a hash-index entry would need to point at it.
func writeDataBlock(t *testing.T, dev *memDevice, v *Volume, fsb uint64, name string, ino uint64) uint32 {
	t.Helper()
	buf := make([]byte, v.DirBlockBytes())
	putBE32(buf[0:], dataMagic(v, false))
	region := appendBlockDirEntry(nil, ino, name)
	copy(buf[dataHeaderSize(v):], region)
	freeStart := dataHeaderSize(v) + len(region)
	putBE16(buf[freeStart:], dirFreeTag)
	putBE16(buf[freeStart+2:], uint16(len(buf)-freeStart-4))
	dev.writeAt(v.FilesystemBlockToByte(fsb), buf)
	return uint32(dataHeaderSize(v)) / 8
}

// writeDaTreeBlock writes a single da-node-shaped block (root or leafN):
// blkinfo header with the given magic and forward sibling, then a
// count(u16)+pad(u16) pair, then the {hashval, address} array.
func writeDaTreeBlock(dev *memDevice, v *Volume, fsb uint64, magic uint32, forw uint32, entries []leafEntry) {
	buf := make([]byte, v.DirBlockBytes())
	putBE32(buf[0:], forw)
	putBE16(buf[8:], uint16(magic))
	putBE16(buf[daBlkinfoSize(v):], uint16(len(entries)))
	base := leafHeaderEntryBase(v)
	for i, e := range entries {
		off := base + i*leafEntrySize
		putBE32(buf[off:], e.Hashval)
		putBE32(buf[off+4:], e.Address)
	}
	dev.writeAt(v.FilesystemBlockToByte(fsb), buf)
}

func TestLookupNodeDirDirectHit(t *testing.T) {
	dev := newMemDevice(0)
	v := &Volume{Device: dev, SB: &Superblock{Version: 4, BlockSize: 4096, BlockLog: 12, AGBlockLog: 16, AGBlockCount: 65536}}
	ino := &Inode{Ino: 128}

	leafFileBlock := uint64(1) << (leafOffsetBit - v.SB.BlockLog)
	targetHash := hashname("target")
	addr := writeDataBlock(t, dev, v, 0, "target", 500)
	// the da-node root and its leafN child live at huge logical block
	// numbers inside the reserved leaf-offset namespace, but like any
	// other extent may map to small physical blocks (fsb 1 and 2 here) —
	// a node entry's Address is the child's *logical* block number, the
	// same unit findExtent keys extents on, not a physical block number.
	writeDaTreeBlock(dev, v, 1, daNodeMagicV4, 0, []leafEntry{{Hashval: targetHash, Address: uint32(leafFileBlock + 1)}})
	writeDaTreeBlock(dev, v, 2, dir2LeafNMagicV4, 0, []leafEntry{{Hashval: targetHash, Address: addr}})

	extents := []Extent{
		{StartOffset: 0, StartBlock: 0, BlockCount: 1},
		{StartOffset: leafFileBlock, StartBlock: 1, BlockCount: 1},
		{StartOffset: leafFileBlock + 1, StartBlock: 2, BlockCount: 1},
	}

	entry, found, err := lookupNodeDir(v, ino, extents, "target")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(500), entry.Ino)

	_, found, err = lookupNodeDir(v, ino, extents, "nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupNodeDirFollowsForwardSibling(t *testing.T) {
	dev := newMemDevice(0)
	v := &Volume{Device: dev, SB: &Superblock{Version: 4, BlockSize: 4096, BlockLog: 12, AGBlockLog: 16, AGBlockCount: 65536}}
	ino := &Inode{Ino: 128}

	leafFileBlock := uint64(1) << (leafOffsetBit - v.SB.BlockLog)
	targetHash := hashname("target")
	addr := writeDataBlock(t, dev, v, 0, "target", 500)

	// leafA/leafB are logical block numbers inside the reserved leaf-offset
	// namespace; each maps to a small physical block (1, 2, 3) the same way
	// any other extent would, via the extent list below rather than by
	// being usable directly as a device offset.
	leafA := leafFileBlock + 1
	leafB := leafFileBlock + 2
	writeDaTreeBlock(dev, v, 1, daNodeMagicV4, 0, []leafEntry{{Hashval: targetHash, Address: uint32(leafA)}})
	// leafA's only entry shares target's hash but its address is stale (0);
	// the real entry lives across the forward-sibling boundary in leafB.
	writeDaTreeBlock(dev, v, 2, dir2LeafNMagicV4, uint32(leafB), []leafEntry{{Hashval: targetHash, Address: 0}})
	writeDaTreeBlock(dev, v, 3, dir2LeafNMagicV4, 0, []leafEntry{{Hashval: targetHash, Address: addr}})

	extents := []Extent{
		{StartOffset: 0, StartBlock: 0, BlockCount: 1},
		{StartOffset: leafFileBlock, StartBlock: 1, BlockCount: 1},
		{StartOffset: leafA, StartBlock: 2, BlockCount: 1},
		{StartOffset: leafB, StartBlock: 3, BlockCount: 1},
	}

	entry, found, err := lookupNodeDir(v, ino, extents, "target")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(500), entry.Ino)
}
