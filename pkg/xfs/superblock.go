package xfs

import (
	"math/bits"

	"github.com/google/uuid"
)

// sbReadSize is large enough to cover the v5 superblock tail (meta_uuid,
// rrmapino) while staying within the smallest legal sector size.
const sbReadSize = 512

// Superblock holds the derived fields a reader needs (spec.md §3). It is
// decoded once at Mount and never mutated afterwards.
type Superblock struct {
	BlockSize uint32
	BlockLog  uint8

	SectorSize uint32
	SectorLog  uint8

	InodeSize         uint32
	InodeLog          uint8
	InodesPerBlockLog uint8

	AGBlockCount uint32
	AGBlockLog   uint8
	AGCount      uint32

	DirBlockLog uint8

	// LogStart is the filesystem block the internal log begins at, 0 for an
	// external log device (spec.md §1 "reject a dirty journal at mount").
	LogStart   uint64
	LogBlocks  uint32

	RootIno uint64

	UUID     uuid.UUID
	MetaUUID uuid.UUID

	Version  uint8 // 4 or 5
	HasFtype bool

	versionNum       uint16
	features2        uint32
	incompatFeatures uint32
	compatFeatures   uint32
	roCompatFeatures uint32
	qflags           uint16
}

// AGInodeBits is ag_block_log + inodes_per_block_log (spec.md §3).
func (sb *Superblock) AGInodeBits() uint {
	return uint(sb.AGBlockLog) + uint(sb.InodesPerBlockLog)
}

func isPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

func log2Exact(x uint64) (uint8, bool) {
	if !isPowerOfTwo(x) {
		return 0, false
	}
	return uint8(bits.TrailingZeros64(x)), true
}

// loadSuperblock reads and validates the superblock, implementing the
// ordered checks of spec.md §4.2. Any failure rejects the mount with
// ErrBadSuperblock or ErrUnsupportedVersion.
func loadSuperblock(dev BlockDevice) (*Superblock, error) {
	buf, err := dev.ReadAt(0, sbReadSize)
	if err != nil {
		return nil, err
	}

	magic := be32(buf[0:])
	if magic != SBMagic {
		return nil, badSuperblock("bad magic %#x, want %#x", magic, SBMagic)
	}

	sb := &Superblock{}

	sb.BlockSize = be32(buf[4:])
	sb.versionNum = be16(buf[100:])
	version := uint8(sb.versionNum & sbVersionNumMask)

	minBlock := uint64(512)
	if version == 5 {
		minBlock = 1024
	}
	if uint64(sb.BlockSize) < minBlock || uint64(sb.BlockSize) > 65536 {
		return nil, badSuperblock("block size %d out of range [%d, 65536]", sb.BlockSize, minBlock)
	}
	blockLog := buf[120]
	lg, ok := log2Exact(uint64(sb.BlockSize))
	if !ok || lg != blockLog {
		return nil, badSuperblock("block size %d is not 1<<%d", sb.BlockSize, blockLog)
	}
	sb.BlockLog = blockLog

	sb.SectorSize = uint32(be16(buf[102:]))
	if sb.SectorSize < 512 || sb.SectorSize > 32768 {
		return nil, badSuperblock("sector size %d out of range [512, 32768]", sb.SectorSize)
	}
	sectLog := buf[121]
	lg, ok = log2Exact(uint64(sb.SectorSize))
	if !ok || lg != sectLog {
		return nil, badSuperblock("sector size %d is not 1<<%d", sb.SectorSize, sectLog)
	}
	sb.SectorLog = sectLog

	sb.InodeSize = uint32(be16(buf[104:]))
	if sb.InodeSize < 256 || sb.InodeSize > 2048 {
		return nil, badSuperblock("inode size %d out of range [256, 2048]", sb.InodeSize)
	}
	inodeLog := buf[122]
	lg, ok = log2Exact(uint64(sb.InodeSize))
	if !ok || lg != inodeLog {
		return nil, badSuperblock("inode size %d is not 1<<%d", sb.InodeSize, inodeLog)
	}
	sb.InodeLog = inodeLog
	sb.InodesPerBlockLog = buf[123]

	sb.AGBlockLog = buf[124]
	sb.AGBlockCount = be32(buf[84:])
	sb.AGCount = be32(buf[88:])
	if sb.AGCount < 1 {
		return nil, badSuperblock("ag_count %d < 1", sb.AGCount)
	}

	sb.DirBlockLog = buf[192]
	// max_block_size here is the largest legal block size (64KiB == 1<<16).
	if uint(sb.BlockLog)+uint(sb.DirBlockLog) > 16 {
		return nil, badSuperblock("block_log %d + dir_block_log %d exceeds max block size", sb.BlockLog, sb.DirBlockLog)
	}

	sb.RootIno = be64(buf[56:])
	sb.LogStart = be64(buf[48:])
	sb.LogBlocks = be32(buf[96:])
	copy(sb.UUID[:], buf[32:48])
	sb.features2 = be32(buf[200:])
	sb.qflags = be16(buf[176:])

	switch version {
	case 4:
		if sb.versionNum&versionDirV2Bit == 0 {
			return nil, badSuperblock("v4 superblock missing DIRV2 feature bit")
		}
		if sb.versionNum&versionExtFlgBit == 0 {
			return nil, badSuperblock("v4 superblock missing EXTFLG feature bit")
		}
		const v4OkayMask = versionAttrBit | versionNlinkBit | versionQuotaBit |
			versionAlignBit | versionDalignBit | versionSharedBit |
			versionLogV2Bit | versionSectorBit | versionExtFlgBit |
			versionDirV2Bit | versionBorgBit | versionMoreBitsBit | sbVersionNumMask
		if sb.versionNum&^uint16(v4OkayMask) != 0 {
			return nil, badSuperblock("v4 superblock sets unknown version bits %#x", sb.versionNum&^uint16(v4OkayMask))
		}
		if sb.versionNum&versionMoreBitsBit != 0 {
			const v4OkayFeatures2 = version2ReservedBit | version2LazySBCount |
				version2Attr2Bit | version2ParentBit | version2ProjID32Bit |
				version2CRCBit | version2FtypeBit
			if sb.features2&^uint32(v4OkayFeatures2) != 0 {
				return nil, badSuperblock("v4 superblock sets unknown features2 bits %#x", sb.features2&^uint32(v4OkayFeatures2))
			}
		}
		if sb.qflags&(quotaPQuotaEnforce|quotaPQuotaChecked) != 0 {
			return nil, badSuperblock("v4 superblock sets v5-only project-quota bits")
		}
		sb.HasFtype = false // has_ftype_field holds only for v5 (spec.md §4.2)
		sb.MetaUUID = sb.UUID
	case 5:
		sb.compatFeatures = be32(buf[208:])
		sb.roCompatFeatures = be32(buf[212:])
		sb.incompatFeatures = be32(buf[216:])

		if sb.incompatFeatures&^uint32(knownIncompatMask) != 0 {
			return nil, unsupportedVersion("v5 superblock sets unknown incompat features %#x", sb.incompatFeatures&^uint32(knownIncompatMask))
		}
		if uint64(sb.BlockSize) < minCRCBlockSize {
			return nil, badSuperblock("v5 block size %d below minimum CRC block size %d", sb.BlockSize, minCRCBlockSize)
		}
		if sb.qflags&(quotaOQuotaEnforce|quotaOQuotaChecked) != 0 {
			return nil, badSuperblock("v5 superblock sets legacy OQUOTA bits")
		}

		sb.HasFtype = sb.incompatFeatures&incompatFtype != 0
		if sb.incompatFeatures&incompatMetaUUID != 0 {
			copy(sb.MetaUUID[:], buf[248:264])
		} else {
			sb.MetaUUID = sb.UUID
		}
	default:
		return nil, badSuperblock("unsupported version nibble %d", version)
	}

	sb.Version = version
	return sb, nil
}
