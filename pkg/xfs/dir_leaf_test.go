package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLeafDirScansDataBlocksBeforeLeafOffset(t *testing.T) {
	dev := newMemDevice(8192)
	v := &Volume{Device: dev, SB: &Superblock{Version: 4, BlockSize: 4096, BlockLog: 12, AGBlockLog: 16, AGBlockCount: 65536}}

	ino := &Inode{Ino: 128}
	block0 := make([]byte, 4096)
	putBE32(block0[0:], dataMagic(v, false))
	region := appendBlockDirEntry(nil, 128, ".")
	region = appendBlockDirEntry(region, 2, "..")
	copy(block0[dataHeaderSize(v):], region)
	putBE16(block0[dataHeaderSize(v)+len(region):], dirFreeTag)
	putBE16(block0[dataHeaderSize(v)+len(region)+2:], uint16(4096-dataHeaderSize(v)-len(region)))

	block1 := make([]byte, 4096)
	putBE32(block1[0:], dataMagic(v, false))
	region1 := appendBlockDirEntry(nil, 300, "file.txt")
	copy(block1[dataHeaderSize(v):], region1)
	putBE16(block1[dataHeaderSize(v)+len(region1):], dirFreeTag)
	putBE16(block1[dataHeaderSize(v)+len(region1)+2:], uint16(4096-dataHeaderSize(v)-len(region1)))

	dev.writeAt(0, block0)
	dev.writeAt(4096, block1)

	// both data blocks sit below the reserved leaf-offset namespace.
	extents := []Extent{{StartOffset: 0, StartBlock: 0, BlockCount: 2}}
	got, err := readLeafDir(v, ino, extents)
	require.NoError(t, err)
	require.Len(t, got, 3)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.ElementsMatch(t, []string{".", "..", "file.txt"}, names)
}
