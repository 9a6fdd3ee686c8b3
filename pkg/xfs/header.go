package xfs

import "github.com/google/uuid"

// v5Header is the generic header every v5 directory/attribute/symlink/btree
// block carries: magic, crc, self-describing block number, owning uuid and
// owning inode (spec.md §4.4). v4 blocks carry only the magic and omit the
// rest; verifyHeader below treats a negative crcOffset as "nothing else to
// check" so the same call site serves both versions.
type v5Header struct {
	magicOffset  int
	magicSize    int // 2 or 4 bytes
	crcOffset    int // -1 if the block has no CRC (v4, or v5 blocks without one)
	blockNoOffset int
	uuidOffset   int
	ownerOffset  int
}

// verifyHeader runs the ordered check set of spec.md §4.4 / Haiku's
// VerifyHeader.h: magic, then (v5 only) CRC, self block number, uuid, owner,
// in that exact order — each check short-circuits the ones after it.
func verifyHeader(buf []byte, h v5Header, wantMagic uint32, blockNo uint64, volUUID uuid.UUID, owner uint64, part directoryPart) error {
	var gotMagic uint32
	if h.magicSize == 2 {
		gotMagic = uint32(be16(buf[h.magicOffset:]))
	} else {
		gotMagic = be32(buf[h.magicOffset:])
	}
	if gotMagic != wantMagic {
		return corrupt("%s block: bad magic %#x, want %#x", partName(part), gotMagic, wantMagic)
	}

	if h.crcOffset < 0 {
		return nil // v4 block, or a v5 block kind with no self-describing fields
	}

	if !VerifyCRC(buf, h.crcOffset) {
		return corrupt("%s block: crc mismatch", partName(part))
	}

	if h.blockNoOffset >= 0 {
		got := be64(buf[h.blockNoOffset:])
		if got != blockNo {
			return corrupt("%s block: self block number %d, want %d", partName(part), got, blockNo)
		}
	}

	if h.uuidOffset >= 0 {
		var got uuid.UUID
		copy(got[:], buf[h.uuidOffset:h.uuidOffset+16])
		if got != volUUID {
			return corrupt("%s block: owning uuid mismatch", partName(part))
		}
	}

	if h.ownerOffset >= 0 {
		got := be64(buf[h.ownerOffset:])
		if got != owner {
			return corrupt("%s block: owning inode %d, want %d", partName(part), got, owner)
		}
	}

	return nil
}

func partName(p directoryPart) string {
	switch p {
	case partBlock:
		return "directory data"
	case partLeaf:
		return "directory leaf"
	case partNode:
		return "directory node"
	case partAttrLeaf:
		return "attribute leaf"
	case partAttrNode:
		return "attribute node"
	case partSymlink:
		return "symlink"
	case partBMBT:
		return "extent btree"
	default:
		return "unknown"
	}
}
