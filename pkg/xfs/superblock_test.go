package xfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSuperblockBuf constructs a minimal on-disk superblock buffer; fields
// not set default to zero, matching an otherwise-blank filesystem.
func buildSuperblockBuf(version uint16, extraVersionBits uint16) []byte {
	buf := make([]byte, 512)
	putBE32(buf[0:], SBMagic)
	putBE32(buf[4:], 4096) // block_size
	putBE32(buf[84:], 65536) // ag_block_count
	putBE32(buf[88:], 4)     // ag_count
	putBE64(buf[56:], 128)   // root_ino
	putBE16(buf[100:], version|extraVersionBits)
	putBE16(buf[102:], 512) // sector_size
	putBE16(buf[104:], 512) // inode_size
	buf[120] = 12           // block_log
	buf[121] = 9            // sect_log
	buf[122] = 9            // inode_log
	buf[123] = 3            // inodes_per_block_log
	buf[124] = 16           // ag_block_log
	buf[192] = 0            // dir_block_log
	return buf
}

// TestLoadSuperblockV5 exercises spec.md §8 scenario S1: a valid v5
// superblock decodes, exposing root_ino and a self-matching meta_uuid.
func TestLoadSuperblockV5(t *testing.T) {
	buf := buildSuperblockBuf(5, 0)
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	sb, err := loadSuperblock(dev)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), sb.Version)
	assert.Equal(t, uint64(128), sb.RootIno)
	assert.Equal(t, sb.UUID, sb.MetaUUID)
}

// TestLoadSuperblockV4MissingDirV2 exercises spec.md §8 scenario S2: a v4
// superblock lacking the DIRV2 feature bit is rejected.
func TestLoadSuperblockV4MissingDirV2(t *testing.T) {
	buf := buildSuperblockBuf(4, 0)
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	_, err := loadSuperblock(dev)
	assert.ErrorIs(t, err, ErrBadSuperblock)
}

func TestLoadSuperblockV4WithRequiredBits(t *testing.T) {
	buf := buildSuperblockBuf(4, versionDirV2Bit|versionExtFlgBit)
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	sb, err := loadSuperblock(dev)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), sb.Version)
	assert.False(t, sb.HasFtype)
}

func TestLoadSuperblockBadMagic(t *testing.T) {
	buf := buildSuperblockBuf(5, 0)
	buf[0] = 0
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	_, err := loadSuperblock(dev)
	assert.ErrorIs(t, err, ErrBadSuperblock)
}

func TestLoadSuperblockUnsupportedV5IncompatBit(t *testing.T) {
	buf := buildSuperblockBuf(5, 0)
	putBE32(buf[216:], 0x80000000) // unknown incompat bit
	dev := newMemDevice(len(buf))
	dev.writeAt(0, buf)

	_, err := loadSuperblock(dev)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
