package xfs

// Superblock and feature constants. Grounded on the teacher's
// pkg/xfs/structures.go (which wrote these fields) and the Haiku XFS driver's
// xfs.h / xfs_types.h (which this spec's invariants were distilled from).
const (
	SBMagic = 0x58465342 // "XFSB"

	sbVersionNumMask = 0x000f // low nibble of sb_versionnum

	versionAttrBit     = 0x0010
	versionNlinkBit    = 0x0020
	versionQuotaBit    = 0x0040
	versionAlignBit    = 0x0080
	versionDalignBit   = 0x0100
	versionSharedBit   = 0x0200
	versionLogV2Bit    = 0x0400
	versionSectorBit   = 0x0800
	versionExtFlgBit   = 0x1000
	versionDirV2Bit    = 0x2000
	versionBorgBit     = 0x4000
	versionMoreBitsBit = 0x8000

	version2ReservedBit   = 0x00000001
	version2LazySBCount   = 0x00000002
	version2Attr2Bit      = 0x00000008
	version2ParentBit     = 0x00000010
	version2ProjID32Bit   = 0x00000080
	version2CRCBit        = 0x00000100
	version2FtypeBit      = 0x00000200

	// v5 incompatible feature bits this reader understands. Any bit outside
	// this mask on an otherwise-v5 volume aborts the mount (spec.md §4.2.6).
	incompatFtype    = 0x00000001
	incompatSparse   = 0x00000002
	incompatMetaUUID = 0x00000004
	incompatBigTime  = 0x00000008
	incompatNeedsRepair = 0x00000010 // excluded from knownIncompatMask below: doubles as the dirty-journal rejection spec.md §1 requires
	incompatRmapBT   = 0x00000040 // reverse-mapping btree: tolerated, never walked
	incompatReflink  = 0x00000080
	incompatInoBtCnt = 0x00000400

	knownIncompatMask = incompatFtype | incompatSparse | incompatMetaUUID |
		incompatBigTime | incompatRmapBT | incompatReflink | incompatInoBtCnt

	// Project-quota enforce/checked bits; v5-only, must not appear on a v4
	// volume (spec.md §4.2.7).
	quotaPQuotaEnforce = 0x0020
	quotaPQuotaChecked = 0x0010
	// v4's own legacy "OQUOTA" enforce/checked bits, which must not be set
	// once a volume claims v5.
	quotaOQuotaEnforce = 0x0002
	quotaOQuotaChecked = 0x0004

	InodeMagic = 0x494e // "IN"

	InodeFormatDev     = 0
	InodeFormatLocal   = 1
	InodeFormatExtents = 2
	InodeFormatBTree   = 3
	InodeFormatUUID    = 4

	extentStateNormal    = 0
	extentStateUnwritten = 1

	// Directory/attribute/symlink magic numbers, v4 and v5 forms
	// (spec.md §6 magic table).
	dir2BlockMagicV4 = 0x58443242 // "XD2B"
	dir2BlockMagicV5 = 0x58444233 // "XDB3"
	dir2DataMagicV4  = 0x58443244 // "XD2D"
	dir2DataMagicV5  = 0x58444433 // "XDD3"
	dir2Leaf1MagicV4 = 0xd2f1
	dir2Leaf1MagicV5 = 0x3df1
	dir2LeafNMagicV4 = 0xd2ff
	dir2LeafNMagicV5 = 0x3dff
	daNodeMagicV4    = 0xfebe
	daNodeMagicV5    = 0x3ebe
	bmapBTMagic      = 0x424d4150 // "BMAP", same for v4/v5
	attrLeafMagicV4  = 0xfbee
	attrLeafMagicV5  = 0x3bee
	attrRemoteMagicV5 = 0x5841524d // "XARM", v5 only
	symlinkMagicV5    = 0x58534c4d // "XSLM", v5 only

	dirFreeTag = 0xffff

	ftypeRegular  = 1
	ftypeDir      = 2
	ftypeCharDev  = 3
	ftypeBlockDev = 4
	ftypeFifo     = 5
	ftypeSocket   = 6
	ftypeSymlink  = 7

	dir2DataFDCount = 3

	minCRCBlockSize = 1024

	// logical-offset namespaces for directory data vs leaf/freeindex blocks
	// (spec.md §3 "Directory block address").
	leafOffsetBit = 35
)

// directoryPart tags the kind of block a header verification call is
// checking, matching the Haiku driver's DirectoryType enum
// (Extent.h: XFS_BLOCK, XFS_LEAF, XFS_NODE, XFS_BTREE) extended with the
// attribute and symlink block kinds spec.md §4.4 names explicitly.
type directoryPart int8

const (
	partBlock directoryPart = iota
	partLeaf
	partNode
	partAttrLeaf
	partAttrNode
	partSymlink
	partBMBT
)
