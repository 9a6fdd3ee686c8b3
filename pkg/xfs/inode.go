package xfs

import "github.com/google/uuid"

// Timestamp is an on-disk XFS timestamp: seconds and nanoseconds, both
// stored as plain (non-bigtime) 32-bit fields. Volumes with the v5
// INCOMPAT_BIGTIME bit set use a different encoding this reader does not
// interpret; Atime/Mtime/Ctime/Crtime are left zero-valued in that case
// rather than misreported.
type Timestamp struct {
	Sec  uint32
	Nsec uint32
}

// Inode is a decoded inode core plus its two fork literal areas, exactly as
// laid out on disk (spec.md §3 "Inode core" / "Fork layout").
type Inode struct {
	Ino uint64

	Version uint8 // di_version: 1, 2, or 3 (v5)
	Format  uint8 // di_format: one of InodeFormat*
	AFormat uint8 // di_aformat

	Mode   uint16
	NLink  uint32
	UID    uint32
	GID    uint32
	projIDLo uint16
	projIDHi uint16

	Atime, Mtime, Ctime, Crtime Timestamp

	Size     uint64
	NBlocks  uint64
	ExtSize  uint32
	NExtents uint32
	ANExtents uint16

	Flags  uint16
	Flags2 uint64
	Gen    uint32

	CoreSize int
	ForkOff  uint8

	// DataFork and AttrFork are the raw literal-area bytes following the
	// core; their interpretation (inline data, extent list or btree root)
	// depends on Format/AFormat (spec.md §4.5).
	DataFork []byte
	AttrFork []byte

	OwnerUUID uuid.UUID // di_uuid, v5 only; zero on v4
}

// ProjectID reassembles the (possibly split) 32-bit project quota id
// (spec.md §3 supplement, version2ProjID32Bit).
func (ino *Inode) ProjectID() uint32 {
	return uint32(ino.projIDHi)<<16 | uint32(ino.projIDLo)
}

// IsDir, IsRegular and IsSymlink classify di_mode the way S_ISDIR/S_ISREG/
// S_ISLNK do; spec.md §3 reuses the POSIX mode-bit layout verbatim.
const (
	modeFmtMask = 0xf000
	modeFmtDir  = 0x4000
	modeFmtReg  = 0x8000
	modeFmtLnk  = 0xa000
)

func (ino *Inode) IsDir() bool     { return ino.Mode&modeFmtMask == modeFmtDir }
func (ino *Inode) IsRegular() bool { return ino.Mode&modeFmtMask == modeFmtReg }
func (ino *Inode) IsSymlink() bool { return ino.Mode&modeFmtMask == modeFmtLnk }

// LoadInode reads and decodes the inode core at ino, dispatching the core
// size on di_version the way spec.md §4.5 requires (96 bytes for v1/v2, 176
// for v5's v3 core).
func LoadInode(v *Volume, ino uint64) (*Inode, error) {
	off := v.InodeToByte(ino)
	buf, err := v.ReadAt(off, int(v.SB.InodeSize))
	if err != nil {
		return nil, err
	}

	magic := be16(buf[0:])
	if magic != InodeMagic {
		return nil, corrupt("inode %d: bad magic %#x", ino, magic)
	}

	version := buf[4]
	coreSize := 96
	if version >= 3 {
		coreSize = 176
	}
	if coreSize > len(buf) {
		return nil, corrupt("inode %d: inode size %d too small for v%d core", ino, len(buf), version)
	}

	n := &Inode{
		Ino:      ino,
		Version:  version,
		Format:   buf[5],
		Mode:     be16(buf[2:]),
		UID:      be32(buf[8:]),
		GID:      be32(buf[12:]),
		NLink:    be32(buf[16:]),
		projIDLo: be16(buf[20:]),
		projIDHi: be16(buf[22:]),
		Atime:    Timestamp{Sec: be32(buf[32:]), Nsec: be32(buf[36:])},
		Mtime:    Timestamp{Sec: be32(buf[40:]), Nsec: be32(buf[44:])},
		Ctime:    Timestamp{Sec: be32(buf[48:]), Nsec: be32(buf[52:])},
		Size:     be64(buf[56:]),
		NBlocks:  be64(buf[64:]),
		ExtSize:  be32(buf[72:]),
		NExtents: be32(buf[76:]),
		ANExtents: be16(buf[80:]),
		ForkOff:  buf[82],
		AFormat:  buf[83],
		Flags:    be16(buf[90:]),
		Gen:      be32(buf[92:]),
		CoreSize: coreSize,
	}

	if version >= 3 {
		n.Flags2 = be64(buf[120:])
		n.Crtime = Timestamp{Sec: be32(buf[144:]), Nsec: be32(buf[148:])}
		copy(n.OwnerUUID[:], buf[160:176])
		if got := be64(buf[152:]); got != ino {
			return nil, corrupt("inode %d: self inode number %d mismatch", ino, got)
		}
	}
	if v.SB.incompatFeatures&incompatBigTime != 0 {
		n.Atime, n.Mtime, n.Ctime, n.Crtime = Timestamp{}, Timestamp{}, Timestamp{}, Timestamp{}
	}

	forkEnd := len(buf)
	if n.ForkOff != 0 {
		attrOff := coreSize + int(n.ForkOff)*8
		if attrOff > len(buf) {
			return nil, corrupt("inode %d: attribute fork offset %d beyond inode size %d", ino, attrOff, len(buf))
		}
		n.AttrFork = buf[attrOff:]
		forkEnd = attrOff
	}
	n.DataFork = buf[coreSize:forkEnd]

	return n, nil
}
