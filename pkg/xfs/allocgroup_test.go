package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAGHeaders(blockSize uint32, sectorSize uint32, agBlocks uint32) []byte {
	buf := make([]byte, int(blockSize)*3+int(sectorSize))
	agf := buf[blockSize:]
	putBE32(agf[0:], agfMagic)
	putBE32(agf[12:], agBlocks)

	agi := buf[2*blockSize:]
	putBE32(agi[0:], agiMagic)
	putBE32(agi[12:], agBlocks)
	return buf
}

func TestCheckAllocationGroupsClean(t *testing.T) {
	blockSize, sectorSize, agBlocks := uint32(4096), uint32(512), uint32(1000)
	buf := buildAGHeaders(blockSize, sectorSize, agBlocks)
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	v := &Volume{Device: dev, SB: &Superblock{BlockSize: blockSize, BlockLog: 12, SectorSize: sectorSize, AGBlockCount: agBlocks, AGCount: 1}}

	warnings, err := CheckAllocationGroups(v)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestCheckAllocationGroupsBadAGFMagic(t *testing.T) {
	blockSize, sectorSize, agBlocks := uint32(4096), uint32(512), uint32(1000)
	buf := buildAGHeaders(blockSize, sectorSize, agBlocks)
	putBE32(buf[blockSize:], 0)
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	v := &Volume{Device: dev, SB: &Superblock{BlockSize: blockSize, BlockLog: 12, SectorSize: sectorSize, AGBlockCount: agBlocks, AGCount: 1}}

	warnings, err := CheckAllocationGroups(v)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, uint32(0), warnings[0].AG)
	assert.Contains(t, warnings[0].Message, "AGF bad magic")
}
